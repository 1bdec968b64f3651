package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// FallbackMessage 降级响应的固定文本
const FallbackMessage = "I apologize, but I'm having trouble processing your request right now. Please try again or contact our support team directly."

// Status 单次请求的处理结果
type Status string

const (
	// StatusSuccess 正常生成响应
	StatusSuccess Status = "success"
	// StatusDegraded 某一步失败，返回降级响应
	StatusDegraded Status = "degraded"
	// StatusRejected 输入非法，未进入编排流程
	StatusRejected Status = "rejected"
)

// 分类模式
const (
	ModeKeyword = "keyword"
	ModeModel   = "model"
)

// Outcome 编排结果，替代异常传播
type Outcome struct {
	Status   Status
	Response *domain.StructuredResponse
	// Record 已写入的交互记录，rejected 时为 nil
	Record *domain.ConversationRecord
	// Err 导致 degraded 或 rejected 的原因
	Err error
}

// RulesetSource 提供当前策略快照
type RulesetSource interface {
	Current() *domain.Ruleset
}

// Options 编排参数
type Options struct {
	TopK              int
	Mode              string
	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
	RetrievalRetries  int
	RetryBackoff      time.Duration
}

// Dependencies 编排依赖，Judge、Notifier、Observer 可为空
type Dependencies struct {
	Rules     RulesetSource
	Retriever domain.Retriever
	Generator domain.Generator
	Judge     domain.Judge
	Prompts   *PromptBuilder
	Recorder  *Recorder
	Notifier  domain.HandoffNotifier
	Observer  Observer
}

// Orchestrator 单次请求的响应编排：分类、检索、置信度、转人工决策、生成、记录
// 不持有跨请求的可变状态，可并发调用
type Orchestrator struct {
	rules     RulesetSource
	retriever domain.Retriever
	generator domain.Generator
	judge     domain.Judge
	prompts   *PromptBuilder
	recorder  *Recorder
	notifier  domain.HandoffNotifier
	observer  Observer
	opts      Options
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

// NewOrchestrator 创建 Orchestrator
func NewOrchestrator(deps Dependencies, opts Options) *Orchestrator {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.Mode == "" {
		opts.Mode = ModeKeyword
	}
	if opts.RetrievalRetries < 0 {
		opts.RetrievalRetries = 0
	}
	if deps.Prompts == nil {
		deps.Prompts = NewPromptBuilder(nil, 0)
	}
	if deps.Recorder == nil {
		deps.Recorder = NewRecorder(0)
	}
	if deps.Observer == nil {
		deps.Observer = noopObserver{}
	}

	return &Orchestrator{
		rules:     deps.Rules,
		retriever: deps.Retriever,
		generator: deps.Generator,
		judge:     deps.Judge,
		prompts:   deps.Prompts,
		recorder:  deps.Recorder,
		notifier:  deps.Notifier,
		observer:  deps.Observer,
		opts:      opts,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    log.NewModuleLogger("support", "orchestrator"),
	}
}

// Handle 处理一条客户消息
// 输入非法返回 rejected；任何协作方失败返回 degraded 响应，不向调用方传播错误
func (o *Orchestrator) Handle(ctx context.Context, msg domain.CustomerMessage) *Outcome {
	start := o.now()

	if msg.IsBlank() {
		return &Outcome{
			Status: StatusRejected,
			Err:    &domain.InputError{Field: "message", Reason: "No message provided"},
		}
	}
	lang, err := NormalizeLanguage(msg.Language)
	if err != nil {
		return &Outcome{Status: StatusRejected, Err: err}
	}
	msg.Language = lang

	id := o.newID()
	ctx = log.WithConversationID(ctx, id)
	logger := log.FromContext(ctx, o.logger)

	// 每个请求只读取一次策略快照
	rs := o.rules.Current()

	outcome := &Outcome{Status: StatusSuccess}
	resp, err := o.respond(ctx, rs, msg)
	if err != nil {
		logger.Error("Failed to respond to customer message, returning fallback",
			"error", err,
		)
		outcome.Status = StatusDegraded
		outcome.Err = err
		resp = degradedResponse(err)
	}
	resp.ConversationID = id

	record := &domain.ConversationRecord{
		ID:                id,
		Timestamp:         start.UTC(),
		Message:           msg.Text,
		Language:          msg.Language,
		Category:          resp.Category,
		SentimentScore:    resp.AngerLevel,
		HandledBy:         resp.HandledBy,
		Response:          resp.Response,
		Confidence:        resp.Confidence,
		RelevantDocsCount: resp.RelevantDocsCount,
		Status:            string(outcome.Status),
		Error:             resp.Error,
	}
	outcome.Response = resp
	outcome.Record = record

	// 记录在后台写入，慢的分析库或消息队列不影响响应时间
	o.recorder.Submit(ctx, record, func(err error) {
		o.observer.ObserveRecordFailure()
		logger.Warn("Conversation record was not fully persisted", "error", err)
	})

	if record.IsHandoff() && o.notifier != nil {
		if err := o.notifier.NotifyHandoff(context.WithoutCancel(ctx), record); err != nil {
			logger.Warn("Failed to notify agents about handoff", "error", err)
		}
	}

	elapsed := o.now().Sub(start)
	o.observer.ObserveRequest(string(outcome.Status), string(resp.Category), string(resp.HandledBy), elapsed)
	logger.Info("Customer message handled",
		"status", outcome.Status,
		"category", resp.Category,
		"handled_by", resp.HandledBy,
		"confidence", resp.Confidence,
		"relevant_docs", resp.RelevantDocsCount,
		"duration_ms", elapsed.Milliseconds(),
	)

	return outcome
}

// respond 按顺序执行：分类、检索、置信度与模型判断、转人工决策、生成
func (o *Orchestrator) respond(ctx context.Context, rs *domain.Ruleset, msg domain.CustomerMessage) (*domain.StructuredResponse, error) {
	// 1. 关键词分类
	category := rs.Classifier.Classify(msg.Text)

	// 2. 检索相似历史交互
	docs, err := o.retrieve(ctx, msg.Text)
	if err != nil {
		return nil, err
	}

	// 3. 置信度与模型判断
	confidence := domain.EstimateConfidence(len(docs))
	var (
		anger           float64
		modelConfidence *float64
		explanation     string
	)
	if o.judge != nil {
		judgment, err := o.judgeMessage(ctx, msg.Text, rs.Policy.CategoryNames())
		if err != nil {
			return nil, err
		}
		anger = judgment.AngerLevel
		mc := judgment.Confidence
		modelConfidence = &mc
		explanation = judgment.Explanation
		// 模型模式下只接受已配置的分类，否则保留关键词分类
		if o.opts.Mode == ModeModel && rs.Policy.Has(judgment.Category) {
			category = judgment.Category
		}
	}

	// 4. 转人工决策
	escalate, err := rs.Handoff.ShouldEscalate(category, anger)
	if err != nil {
		return nil, err
	}

	// 5. 生成响应
	var prompt string
	handledBy := domain.HandledByAI
	if escalate {
		handledBy = domain.HandledByHuman
		prompt = o.prompts.HandoffPrompt(msg.Text, msg.Language)
	} else {
		prompt = o.prompts.AnswerPrompt(AnswerInput{
			Question:   msg.Text,
			Language:   msg.Language,
			Category:   category,
			Guidance:   rs.Policy.Guidance(category),
			AngerLevel: anger,
			Documents:  docs,
		})
	}
	text, err := o.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &domain.StructuredResponse{
		Response:          text,
		Category:          category,
		HandledBy:         handledBy,
		Confidence:        confidence,
		ModelConfidence:   modelConfidence,
		AngerLevel:        anger,
		Explanation:       explanation,
		RelevantDocsCount: len(docs),
	}, nil
}

// retrieve 检索相似文档，失败时有限次重试（检索是幂等的）
func (o *Orchestrator) retrieve(ctx context.Context, query string) ([]domain.RetrievedDocument, error) {
	var lastErr error
	for attempt := 0; attempt <= o.opts.RetrievalRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, domain.NewCollaboratorError("retriever", "similar", ctx.Err())
			case <-time.After(o.opts.RetryBackoff * time.Duration(attempt)):
			}
			log.FromContext(ctx, o.logger).Debug("Retrying retrieval",
				"attempt", attempt+1,
				"error", lastErr,
			)
		}

		docs, err := o.similar(ctx, query)
		if err == nil {
			if len(docs) > o.opts.TopK {
				docs = docs[:o.opts.TopK]
			}
			return docs, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, domain.NewCollaboratorError("retriever", "similar", lastErr)
}

func (o *Orchestrator) similar(ctx context.Context, query string) ([]domain.RetrievedDocument, error) {
	if o.retriever == nil {
		return nil, errors.New("no retriever configured")
	}
	callCtx, cancel := withTimeout(ctx, o.opts.RetrievalTimeout)
	defer cancel()

	start := time.Now()
	docs, err := o.retriever.Similar(callCtx, query, o.opts.TopK)
	err = timeoutAware(callCtx, err)
	o.observer.ObserveCollaborator("retriever", time.Since(start), err)
	return docs, err
}

func (o *Orchestrator) judgeMessage(ctx context.Context, text string, categories []domain.Category) (domain.Judgment, error) {
	callCtx, cancel := withTimeout(ctx, o.opts.GenerationTimeout)
	defer cancel()

	start := time.Now()
	judgment, err := o.judge.Judge(callCtx, text, categories)
	err = timeoutAware(callCtx, err)
	o.observer.ObserveCollaborator("judge", time.Since(start), err)
	if err != nil {
		return domain.Judgment{}, domain.NewCollaboratorError("judge", "judge", err)
	}
	return judgment, nil
}

// generate 调用生成模型，不重试
func (o *Orchestrator) generate(ctx context.Context, prompt string) (string, error) {
	if o.generator == nil {
		return "", domain.NewCollaboratorError("generator", "generate", errors.New("no generator configured"))
	}
	callCtx, cancel := withTimeout(ctx, o.opts.GenerationTimeout)
	defer cancel()

	start := time.Now()
	text, err := o.generator.Generate(callCtx, prompt)
	err = timeoutAware(callCtx, err)
	o.observer.ObserveCollaborator("generator", time.Since(start), err)
	if err != nil {
		return "", domain.NewCollaboratorError("generator", "generate", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty generation", domain.ErrMalformedOutput)
	}
	return text, nil
}

// Preview 仅用关键词分类和转人工策略预判一条消息，不调用任何协作方
func (o *Orchestrator) Preview(text string, anger float64) (domain.Category, bool, error) {
	rs := o.rules.Current()
	category := rs.Classifier.Classify(text)
	escalate, err := rs.Handoff.ShouldEscalate(category, anger)
	return category, escalate, err
}

// MatchedKeyword 返回当前策略下命中的分类与关键词
func (o *Orchestrator) MatchedKeyword(text string) (domain.Category, string) {
	return o.rules.Current().Classifier.MatchedKeyword(text)
}

func degradedResponse(err error) *domain.StructuredResponse {
	return &domain.StructuredResponse{
		Response:   FallbackMessage,
		Category:   domain.CategoryError,
		HandledBy:  domain.HandledByAI,
		Confidence: domain.ConfidenceLow,
		Error:      err.Error(),
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// timeoutAware 调用超时时确保错误链包含 context.DeadlineExceeded
func timeoutAware(callCtx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}

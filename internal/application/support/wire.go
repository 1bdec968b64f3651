package support

import (
	"fmt"

	"github.com/google/wire"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/llm"
	"github.com/supportdesk/backend/internal/infrastructure/log"
	"github.com/supportdesk/backend/internal/infrastructure/metrics"
	"github.com/supportdesk/backend/internal/infrastructure/policy"
	"github.com/supportdesk/backend/internal/infrastructure/stream"
	"github.com/supportdesk/backend/internal/infrastructure/tokenizer"
	"github.com/supportdesk/backend/internal/infrastructure/warehouse"
)

// ProvidePromptBuilder 使用 tiktoken 控制上下文长度，编码器不可用时不限制
func ProvidePromptBuilder(cfg *config.SupportConfig) *PromptBuilder {
	estimator, err := tokenizer.GetTiktokenEstimator()
	if err != nil {
		log.NewModuleLogger("support", "wire").Warn("Tiktoken unavailable, prompt context is not budgeted", "error", err)
		return NewPromptBuilder(nil, 0)
	}
	return NewPromptBuilder(estimator, cfg.ContextTokens)
}

// ProvideJudge 配置了生成模型时提供 Judge，否则返回 nil
func ProvideJudge(cfg *config.LLMConfig, generator domain.Generator, prompts *PromptBuilder) domain.Judge {
	if !llm.IsEnabled(cfg) {
		return nil
	}
	return NewModelJudge(generator, prompts)
}

// ProvideObserver 指标关闭时返回 nil（使用空实现）
func ProvideObserver(m *metrics.Metrics) Observer {
	if m == nil {
		return nil
	}
	return m
}

// ProvideRecorder 组装交互记录写入目标：SQLite 必选，分析库与事件流可选
func ProvideRecorder(
	cfg *config.SupportConfig,
	repo domain.ConversationRepository,
	pg *warehouse.PostgresSink,
	ks *stream.KafkaSink,
) *Recorder {
	sinks := []NamedSink{{Name: "sqlite", Sink: repo}}
	if pg != nil {
		sinks = append(sinks, NamedSink{Name: "warehouse", Sink: pg})
	}
	if ks != nil {
		sinks = append(sinks, NamedSink{Name: "stream", Sink: ks})
	}
	return NewRecorder(cfg.RecordTimeout, sinks...)
}

// ProvideOrchestrator 提供 Orchestrator
// 未知的分类模式直接报错，启动即失败
func ProvideOrchestrator(
	cfg *config.SupportConfig,
	rules *policy.Store,
	retriever domain.Retriever,
	generator domain.Generator,
	judge domain.Judge,
	prompts *PromptBuilder,
	recorder *Recorder,
	notifier domain.HandoffNotifier,
	observer Observer,
) (*Orchestrator, error) {
	switch cfg.ClassifierMode {
	case "", config.ClassifierModeKeyword, config.ClassifierModeModel:
	default:
		return nil, fmt.Errorf("unknown classifier mode %q (%s=%s|%s)",
			cfg.ClassifierMode, config.EnvClassifierMode, config.ClassifierModeKeyword, config.ClassifierModeModel)
	}
	if cfg.ClassifierMode == config.ClassifierModeModel && judge == nil {
		log.NewModuleLogger("support", "wire").Warn("Classifier mode is model but no generation model is configured, using keyword categories")
	}

	return NewOrchestrator(Dependencies{
		Rules:     rules,
		Retriever: retriever,
		Generator: generator,
		Judge:     judge,
		Prompts:   prompts,
		Recorder:  recorder,
		Notifier:  notifier,
		Observer:  observer,
	}, Options{
		TopK:              cfg.TopK,
		Mode:              cfg.ClassifierMode,
		RetrievalTimeout:  cfg.RetrievalTimeout,
		GenerationTimeout: cfg.GenerationTimeout,
		RetrievalRetries:  cfg.RetrievalRetries,
		RetryBackoff:      cfg.RetryBackoff,
	}), nil
}

// ProviderSet 客服编排应用层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvidePromptBuilder,
	ProvideJudge,
	ProvideObserver,
	ProvideRecorder,
	ProvideOrchestrator,
)

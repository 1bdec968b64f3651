package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// 在包初始化时设置离线加载器
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Encoding 使用的 BPE 编码
const Encoding = "cl100k_base"

// TiktokenEstimator 使用 tiktoken 计算 Prompt 的 Token 数量
type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex
}

var (
	tiktokenInstance *TiktokenEstimator
	tiktokenOnce     sync.Once
	tiktokenErr      error
)

// GetTiktokenEstimator 获取 TiktokenEstimator 单例，避免重复加载编码文件
func GetTiktokenEstimator() (*TiktokenEstimator, error) {
	tiktokenOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(Encoding)
		if err != nil {
			tiktokenErr = err
			return
		}
		tiktokenInstance = &TiktokenEstimator{encoding: enc}
	})

	if tiktokenErr != nil {
		return nil, tiktokenErr
	}
	return tiktokenInstance, nil
}

// CountTokens 计算文本的 Token 数量
func (e *TiktokenEstimator) CountTokens(text string) int {
	if text == "" {
		return 0
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.encoding.Encode(text, nil, nil))
}

// Truncate 将文本截断到不超过 maxTokens 个 Token
func (e *TiktokenEstimator) Truncate(text string, maxTokens int) string {
	if text == "" || maxTokens <= 0 {
		return ""
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	tokens := e.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return e.encoding.Decode(tokens[:maxTokens])
}

// GetMethod 返回计算方法标识
func (e *TiktokenEstimator) GetMethod() string {
	return "tiktoken"
}

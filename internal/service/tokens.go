package service

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Кодировка для оценки: точного токенайзера Gemini локально нет.
const estimateEncoding = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

// loadEncoding берет BPE из встроенных в бинарь файлов, сеть не используется.
func loadEncoding() (*tiktoken.Tiktoken, error) {
	encodingOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
		encoding, encodingErr = tiktoken.GetEncoding(estimateEncoding)
	})
	return encoding, encodingErr
}

// estimateTokens приблизительно считает токены текста. Возвращает 0, если кодировка недоступна.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	enc, err := loadEncoding()
	if err != nil {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}

// estimateUsage заполняет UsageInfo локальной оценкой.
func estimateUsage(prompt, completion string) UsageInfo {
	p := estimateTokens(prompt)
	c := estimateTokens(completion)
	return UsageInfo{
		PromptTokens:     p,
		CompletionTokens: c,
		TotalTokens:      p + c,
		Estimated:        true,
	}
}

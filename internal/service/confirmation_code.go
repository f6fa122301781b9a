package service

import (
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/foodshare-next/internal/constants"
)

// CodeGenerator 取件码生成器
// 随机源由调用方注入，便于测试时使用确定序列。
type CodeGenerator struct {
	mu       sync.Mutex
	random   io.Reader
	alphabet string
	length   int
}

// NewCodeGenerator 创建取件码生成器，random 为 nil 时使用 crypto/rand
func NewCodeGenerator(random io.Reader) *CodeGenerator {
	if random == nil {
		random = rand.Reader
	}
	return &CodeGenerator{
		random:   random,
		alphabet: constants.ConfirmationCodeAlphabet,
		length:   constants.ConfirmationCodeLength,
	}
}

// Generate 生成 6 位大写字母数字取件码
// 采用拒绝采样，保证每一位在 36 个字符上均匀分布。
func (g *CodeGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(g.alphabet)
	limit := 256 - 256%n
	out := make([]byte, 0, g.length)
	buf := make([]byte, g.length*2)
	for len(out) < g.length {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, g.alphabet[int(b)%n])
			if len(out) == g.length {
				break
			}
		}
	}
	return string(out), nil
}

var errCodeFormat = errors.New("confirmation code format invalid")

// normalizeConfirmationCode 规范化用户输入的取件码
func normalizeConfirmationCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !isValidConfirmationCode(code) {
		return "", errCodeFormat
	}
	return code, nil
}

// isValidConfirmationCode 判断取件码格式（严格大写）
func isValidConfirmationCode(code string) bool {
	if len(code) != constants.ConfirmationCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(constants.ConfirmationCodeAlphabet, r) {
			return false
		}
	}
	return true
}

package storage

import (
	"strings"

	"github.com/gobwas/glob"
)

// compileGlob 将 Redis 风格的 glob 模式转换为 gobwas/glob 语法后编译。
// 区别在于 gobwas 把 {} 当作分支，取反写作 [!...] 而不是 [^...]
func compileGlob(pattern string) (glob.Glob, error) {
	var (
		b         strings.Builder
		inBracket bool
	)
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			if inBracket {
				b.WriteRune(runes[i])
			} else {
				b.WriteRune('\\')
				b.WriteRune(runes[i])
			}
		case r == '[' && !inBracket:
			inBracket = true
			b.WriteRune('[')
			if i+1 < len(runes) && runes[i+1] == '^' {
				b.WriteRune('!')
				i++
			}
		case r == ']' && inBracket:
			inBracket = false
			b.WriteRune(']')
		case (r == '{' || r == '}') && !inBracket:
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return glob.Compile(b.String())
}

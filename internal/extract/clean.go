package extract

import (
	"regexp"
	"strings"
)

var (
	controlChars    = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	horizontalSpace = regexp.MustCompile(`[\t\v\f \p{Zs}]+`)
	extraBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Clean 规范化抽取出的原始文本，结果对 Clean 幂等：
//   - 删除除制表符、换行外的 C0 控制字符；
//   - 统一换行为 \n，连续水平空白压缩为一个空格；
//   - 去掉每行首尾空白，连续空行最多保留一行；
//   - 去掉整体首尾空白。
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = controlChars.ReplaceAllString(text, "")
	text = horizontalSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = extraBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

package skills

import "strings"

// Dictionary 是只读的技能词表：小写、去重、保留首次出现的顺序。
// 构建完成后不再修改，可在多个 goroutine 间无锁共享。
type Dictionary struct {
	entries []string
	index   map[string]struct{}
}

// NewDictionary 从任意词条构建词表，空白词条会被忽略。
func NewDictionary(entries []string) *Dictionary {
	d := &Dictionary{
		entries: make([]string, 0, len(entries)),
		index:   make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := d.index[e]; ok {
			continue
		}
		d.index[e] = struct{}{}
		d.entries = append(d.entries, e)
	}
	return d
}

// NewDefaultDictionary 使用内置 catalog 构建词表，进程启动时调用一次。
func NewDefaultDictionary() *Dictionary {
	var all []string
	for _, group := range catalog {
		all = append(all, group...)
	}
	return NewDictionary(all)
}

// Len 返回去重后的词条数量。
func (d *Dictionary) Len() int { return len(d.entries) }

// Contains 判断词条是否存在（大小写不敏感）。
func (d *Dictionary) Contains(skill string) bool {
	_, ok := d.index[strings.ToLower(skill)]
	return ok
}

// Entries 返回词条副本。
func (d *Dictionary) Entries() []string {
	out := make([]string, len(d.entries))
	copy(out, d.entries)
	return out
}

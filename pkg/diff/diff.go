// Package diff 计算文本字段变更，用于历史记录
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change 两个文本版本之间的差异
type Change struct {
	Patch     string `json:"patch"`     // diff-match-patch 补丁文本，可用于从旧值还原新值
	Pretty    string `json:"pretty"`    // 便于阅读的差异文本，删除用 [-...-]，新增用 {+...+}
	Inserted  int    `json:"inserted"`  // 新增字符数
	Deleted   int    `json:"deleted"`   // 删除字符数
	Unchanged bool   `json:"unchanged"` // 内容相同
}

// TextChange 计算 oldText 到 newText 的差异
func TextChange(oldText, newText string) Change {
	if oldText == newText {
		return Change{Unchanged: true}
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var (
		pretty strings.Builder
		c      Change
	)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			c.Inserted += len([]rune(d.Text))
			pretty.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffDelete:
			c.Deleted += len([]rune(d.Text))
			pretty.WriteString("[-" + d.Text + "-]")
		default:
			pretty.WriteString(d.Text)
		}
	}
	c.Pretty = pretty.String()
	c.Patch = dmp.PatchToText(dmp.PatchMake(oldText, diffs))
	return c
}

// Apply 将 TextChange 生成的补丁应用到 base，返回结果和是否全部成功
func Apply(base, patch string) (string, bool) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return base, false
	}
	out, applied := dmp.PatchApply(patches, base)
	for _, ok := range applied {
		if !ok {
			return out, false
		}
	}
	return out, true
}

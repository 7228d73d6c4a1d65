package domain

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// HistoryEntry 一个属性的一次变更
type HistoryEntry struct {
	ID         int64
	EntityType string
	EntityID   int64
	UID        int64
	Property   string
	OldValue   string
	NewValue   string
	Diff       string
	CreatedAt  time.Time
}

// HistoryRepository 历史记录仓储接口
type HistoryRepository interface {
	// Create 批量写入
	Create(ctx context.Context, entries []*HistoryEntry) error

	// ListByEntity 获取实体的历史记录，新的在前
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*HistoryEntry, error)
}

// PropertyChange 属性变更
type PropertyChange struct {
	Property string
	Old      string
	New      string
}

var auditType = reflect.TypeFor[Audit]()

// DiffProperties 比较两个同类型实体的导出字段，忽略审计字段
// 时间按秒比较，切片按元素的文本表示比较
func DiffProperties(oldObj, newObj any) []PropertyChange {
	ov, nv := reflect.ValueOf(oldObj), reflect.ValueOf(newObj)
	for ov.Kind() == reflect.Pointer {
		ov = ov.Elem()
	}
	for nv.Kind() == reflect.Pointer {
		nv = nv.Elem()
	}
	if ov.Type() != nv.Type() || ov.Kind() != reflect.Struct {
		return nil
	}

	var changes []PropertyChange
	t := ov.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type == auditType {
			continue
		}
		o, n := formatValue(ov.Field(i)), formatValue(nv.Field(i))
		if o != n {
			changes = append(changes, PropertyChange{Property: lowerFirst(f.Name), Old: o, New: n})
		}
	}
	return changes
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// formatValue 属性值的文本表示，也用于历史记录存储
func formatValue(v reflect.Value) string {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if t, ok := v.Interface().(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Truncate(time.Second).UTC().Format(time.RFC3339)
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case reflect.Struct:
		var parts []string
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).Name == "ID" {
				continue
			}
			parts = append(parts, formatValue(v.Field(i)))
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprint(v.Interface())
}

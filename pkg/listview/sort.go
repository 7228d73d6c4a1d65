package listview

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortParam is one sort key of a list.
type SortParam struct {
	Property  string `json:"property"`
	Ascending bool   `json:"ascending"`
}

// SortSpec 列表排序：主排序键 + 可选的次排序键
type SortSpec struct {
	Primary   SortParam `json:"primary"`
	Secondary SortParam `json:"secondary"`
}

// IsZero 没有任何排序键
func (s SortSpec) IsZero() bool {
	return s.Primary.Property == "" && s.Secondary.Property == ""
}

// Params 返回非空的排序键，最多两个
func (s SortSpec) Params() []SortParam {
	out := make([]SortParam, 0, 2)
	if s.Primary.Property != "" {
		out = append(out, s.Primary)
	}
	if s.Secondary.Property != "" && !strings.EqualFold(s.Secondary.Property, s.Primary.Property) {
		out = append(out, s.Secondary)
	}
	return out
}

// ErrUnknownProperty 排序字段不存在或不可排序
type ErrUnknownProperty struct {
	Property string
}

func (e *ErrUnknownProperty) Error() string {
	return fmt.Sprintf("listview: unknown sort property %q", e.Property)
}

var fieldCache sync.Map // reflect.Type -> map[string][]int

// propertyIndex maps lower-cased json names and field names to field indexes,
// following embedded structs.
func propertyIndex(t reflect.Type) map[string][]int {
	if v, ok := fieldCache.Load(t); ok {
		return v.(map[string][]int)
	}
	idx := make(map[string][]int)
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		idx[strings.ToLower(f.Name)] = f.Index
		if tag := f.Tag.Get("json"); tag != "" {
			name, _, _ := strings.Cut(tag, ",")
			if name != "" && name != "-" {
				idx[strings.ToLower(name)] = f.Index
			}
		}
	}
	fieldCache.Store(t, idx)
	return idx
}

func structType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// ValidateSort 检查排序字段是否存在于 T
func ValidateSort[T any](spec SortSpec) error {
	t := structType(reflect.TypeFor[T]())
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("listview: %s is not a struct", t)
	}
	idx := propertyIndex(t)
	for _, p := range spec.Params() {
		if _, ok := idx[strings.ToLower(p.Property)]; !ok {
			return &ErrUnknownProperty{Property: p.Property}
		}
	}
	return nil
}

type keyCompare struct {
	index     []int
	ascending bool
}

// Comparator 根据排序键构造比较函数
// 字符串按德语排序规则（忽略大小写）比较，nil 值排在最前
// 返回的比较函数持有自己的 collator，不能在多个 goroutine 间共享
func Comparator[T any](spec SortSpec) (func(a, b T) int, error) {
	if err := ValidateSort[T](spec); err != nil {
		return nil, err
	}
	idx := propertyIndex(structType(reflect.TypeFor[T]()))

	keys := make([]keyCompare, 0, 2)
	for _, p := range spec.Params() {
		keys = append(keys, keyCompare{index: idx[strings.ToLower(p.Property)], ascending: p.Ascending})
	}
	col := collate.New(language.German, collate.IgnoreCase)

	return func(a, b T) int {
		va, vb := derefStruct(reflect.ValueOf(&a).Elem()), derefStruct(reflect.ValueOf(&b).Elem())
		for _, k := range keys {
			var r int
			switch {
			case !va.IsValid() && !vb.IsValid():
				r = 0
			case !va.IsValid():
				r = -1
			case !vb.IsValid():
				r = 1
			default:
				r = compareValues(col, fieldByIndex(va, k.index), fieldByIndex(vb, k.index))
			}
			if r != 0 {
				if !k.ascending {
					return -r
				}
				return r
			}
		}
		return 0
	}, nil
}

func derefStruct(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// fieldByIndex 与 reflect.Value.FieldByIndex 相同，但遇到 nil 嵌入指针时返回无效值
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 {
			v = derefStruct(v)
			if !v.IsValid() {
				return v
			}
		}
		v = v.Field(x)
	}
	return v
}

var timeType = reflect.TypeFor[time.Time]()

func compareValues(col *collate.Collator, a, b reflect.Value) int {
	a, b = derefStruct(a), derefStruct(b)
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0
	case !a.IsValid():
		return -1
	case !b.IsValid():
		return 1
	}

	// 底层类型为 time.Time 的自定义时间类型同样按时间比较
	if a.Kind() == reflect.Struct && a.Type().ConvertibleTo(timeType) {
		return a.Convert(timeType).Interface().(time.Time).Compare(b.Convert(timeType).Interface().(time.Time))
	}

	switch a.Kind() {
	case reflect.String:
		if r := col.CompareString(a.String(), b.String()); r != 0 {
			return r
		}
		return strings.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	case reflect.Slice, reflect.Map:
		return cmp.Compare(a.Len(), b.Len())
	}
	return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

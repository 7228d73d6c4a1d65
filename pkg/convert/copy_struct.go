package convert

import (
	"time"

	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// timeConverters 领域模型使用 time.Time，DTO 使用 timex.Time
var timeConverters = []copier.TypeConverter{
	{
		SrcType: time.Time{},
		DstType: timex.Time{},
		Fn: func(src interface{}) (interface{}, error) {
			return timex.Time(src.(time.Time)), nil
		},
	},
	{
		SrcType: timex.Time{},
		DstType: time.Time{},
		Fn: func(src interface{}) (interface{}, error) {
			return src.(timex.Time).Time(), nil
		},
	},
	{
		SrcType: (*time.Time)(nil),
		DstType: (*timex.Time)(nil),
		Fn: func(src interface{}) (interface{}, error) {
			t, _ := src.(*time.Time)
			if t == nil || t.IsZero() {
				return (*timex.Time)(nil), nil
			}
			v := timex.Time(*t)
			return &v, nil
		},
	},
	{
		SrcType: (*timex.Time)(nil),
		DstType: (*time.Time)(nil),
		Fn: func(src interface{}) (interface{}, error) {
			t, _ := src.(*timex.Time)
			if t == nil || t.IsZero() {
				return (*time.Time)(nil), nil
			}
			v := t.Time()
			return &v, nil
		},
	},
}

// Copy 把 src 中与 dst 同名的字段复制到 dst，包括嵌入结构体的字段
func Copy(dst, src any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true, Converters: timeConverters}); err != nil {
		return errors.Wrap(err, "convert: copy")
	}
	return nil
}

package code

import (
	"fmt"
	"net/http"
)

// Code 错误码/成功码
// Code is the user facing result of an operation. Error codes double as the
// service's user exceptions: they carry a localized message and optional details.
type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 消息
	Lang lang
	// http 状态
	httpStatus int
	// 数据
	data     interface{}
	haveData bool
	// 错误详细信息
	details     []string
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code. Duplicate codes panic at init time.
func NewError(code int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("error code %d already exists", code))
	}
	codes[code] = l.en
	return &Code{code: code, status: false, Lang: l, httpStatus: http.StatusOK}
}

// NewSuss registers a success code.
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("success code %d already exists", code))
	}
	sussCodes[code] = l.en
	return &Code{code: code, status: true, Lang: l, httpStatus: http.StatusOK}
}

// Clone 创建一个新的 Code 副本
// The registered codes are package globals, so every With* call works on a copy.
func (e *Code) Clone() *Code {
	c := &Code{
		code:        e.code,
		status:      e.status,
		Lang:        e.Lang,
		httpStatus:  e.httpStatus,
		data:        e.data,
		haveData:    e.haveData,
		haveDetails: e.haveDetails,
	}
	if len(e.details) > 0 {
		c.details = append([]string{}, e.details...)
	}
	return c
}

func (e *Code) Error() string {
	return e.Msg()
}

// Is reports whether target carries the same code, so errors.Is works on clones.
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code && t.status == e.status
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

// MsgIn returns the message in the given language, falling back to English.
func (e *Code) MsgIn(lng string) string {
	return e.Lang.GetMessageIn(lng)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

func (e *Code) StatusCode() int {
	return e.httpStatus
}

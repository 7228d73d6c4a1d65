package logger

// 统一的日志字段命名常量
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldEntity 实体类型字段 (contract, outgoing_mail ...)
	FieldEntity = "entity"

	// FieldEntityID 实体 ID 字段
	FieldEntityID = "entityId"

	// FieldList 列表键字段
	FieldList = "list"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldCount 数量字段
	FieldCount = "count"
)

// Package service 实现业务逻辑层
package service

// ServiceConfig 服务层配置
type ServiceConfig struct {
	User     UserServiceConfig
	Contract ContractServiceConfig
}

// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // 注册是否启用
}

// ContractServiceConfig 合同服务配置
type ContractServiceConfig struct {
	Types []string // 允许的合同类型，为空时不限制
}

// AllowsType 合同类型是否在白名单中，空类型总是允许
func (c ContractServiceConfig) AllowsType(t string) bool {
	if t == "" || len(c.Types) == 0 {
		return true
	}
	for _, v := range c.Types {
		if v == t {
			return true
		}
	}
	return false
}

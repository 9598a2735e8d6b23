// Package router 提供 HTTP 路由注册
// 本文件定义职位相关的首次联系路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes 注册职位相关路由（需要认证）
func (rt *Router) RegisterJobRoutes(rg *gin.RouterGroup) {
	jobGroup := rg.Group("/job")
	{
		jobGroup.POST("/apply", rt.handlers.Contact.Apply)         // 投递职位，同时打开会话
		jobGroup.POST("/startChat", rt.handlers.Contact.StartChat) // 不投递，直接就职位沟通
	}
}

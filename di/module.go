package di

// Module 将一组相关的注册打包在一起，通过 Container.Use 安装
type Module interface {
	Provide(c *Container)
}

// ModuleFunc 让普通函数实现 Module
type ModuleFunc func(c *Container)

func (f ModuleFunc) Provide(c *Container) {
	f(c)
}

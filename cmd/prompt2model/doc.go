// prompt2model 服务入口：装配配置、日志、遥测、流水线与 HTTP 边界层。
package main

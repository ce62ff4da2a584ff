// 包 server 管理 HTTP 服务器生命周期：非阻塞启动与信号驱动的优雅关闭。
package server

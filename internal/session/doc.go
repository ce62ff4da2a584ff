/*
包 session 提供 GenerationSession 的存取。

Repository 接口把一次用户旅程（prompt、两张参考图的位置、
reconstruction / remesh 任务 id）和浏览器会话关联起来。
缺失的 id 统一返回 SESSION_EXPIRED，由编排器原样上抛。

后端实现：

  - MemoryRepository — 进程内 map，默认后端
  - GormRepository — sqlite（glebarez，免 cgo）或 postgres，重启可恢复
*/
package session

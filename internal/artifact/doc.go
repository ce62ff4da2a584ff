/*
包 artifact 提供 session 维度的临时产物存储。

键为 (session id, slot)，值为不透明字符串：要么是服务商托管的 URL，
要么是自包含的 base64 data URI，store 从不解释内容。
写入为 last-write-wins，读取缺失键返回 ARTIFACT_NOT_FOUND，
因此崩溃造成的半写状态只会表现为"缺失"，不会表现为损坏。

后端实现：

  - MemoryStore — 进程内 map，默认后端
  - RedisStore — go-redis，多实例共享
  - FSStore — 每个键一个文本文件
*/
package artifact

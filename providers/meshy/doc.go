/*
包 meshy 对接 Meshy 的 3D 生成 API（openapi/v1）。

两类异步任务：

  - image-to-3d — 从单张参考图重建带贴图的 3D 模型
  - remesh — 对已重建的模型做减面与格式导出（glb/fbx/obj/usdz/stl）

提交接口立即返回任务 id；状态接口一次调用一次查询，包内不做轮询，
重试节奏完全由调用方决定。状态查询的传输层失败以可重试的
POLL_TRANSPORT 错误上抛，与任务自身的 FAILED 状态严格区分。
*/
package meshy

/*
包 handlers 实现 HTTP 边界层。

路由与编排操作一一对应：

	POST /generate-images            — 双路图像生成
	POST /select-image               — 选图并提交 3D 重建
	GET  /model-status/{task_id}     — 重建任务状态
	POST /remesh-model               — 减面 / 格式导出
	GET  /remesh-status/{task_id}    — remesh 任务状态
	POST /convert-to-stl             — STL 导出（remesh 的特例）
	GET  /download-model/{task_id}   — 模型下载（附件）
	GET  /download-stl/{task_id}     — STL 下载（附件）
	GET  /proxy-model/{task_id}/…    — 同源 glb 代理（内联）
	GET  /health /healthz /ready     — 健康检查

所有 JSON 响应使用统一的 Response 信封；错误经
types.Error → 错误码 → HTTP 状态码映射后返回。
*/
package handlers

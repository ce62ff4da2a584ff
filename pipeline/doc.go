/*
包 pipeline 实现从文本提示词到 3D 模型的编排流水线。

阶段顺序固定：

	提示词归一化（可选翻译，best-effort）
	→ 固定后缀增强
	→ 双路并发图像生成（任一失败即整体失败）
	→ 双路并发背景去除（best-effort，失败回退原图）
	→ 会话落盘 + 图像留存
	→ 选图触发 3D 重建（异步任务）
	→ 调用方驱动的状态轮询
	→ 可选 remesh（减面 / STL 导出）

编排器自身无状态：会话在 session.Repository，图像在 artifact.Store，
任务状态由服务商持有，每次查询都重新取。
*/
package pipeline

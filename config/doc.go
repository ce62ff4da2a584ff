/*
包 config 提供服务配置的加载与校验。

配置来源按优先级合并：内置默认值 → YAML 文件 → `P2M_` 前缀环境变量。
环境变量名由结构体的 env tag 逐级拼接而成，
例如 Providers.Meshy.APIKey 对应 P2M_PROVIDERS_MESHY_API_KEY。

# 配置段

  - server — 监听端口、超时、CORS 白名单
  - log — zap 日志级别与格式
  - redis / database — artifact store 与 session repository 的持久化后端
  - artifact / session — 后端选择（memory / redis / fs，memory / database）
  - providers — OpenAI、Stability、remove.bg、Meshy 四个外部服务
  - auth / rate_limit / telemetry — 边界层中间件配置
*/
package config

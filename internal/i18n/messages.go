package i18n

// Key identifies a user-facing message.
type Key string

const (
	MsgGenericError       Key = "generic_error"
	MsgUnauthorized       Key = "unauthorized"
	MsgNetworkUnavailable Key = "network_unavailable"
	MsgMalformedPayload   Key = "malformed_payload"
	MsgRejected           Key = "rejected"
	MsgTopicRequired      Key = "topic_required"
	MsgTopicNumeric       Key = "topic_numeric"
	MsgCountRequired      Key = "count_required"
	MsgTooManyItems       Key = "too_many_items"
	MsgNoHistory          Key = "no_history"
	MsgMCQPrompt          Key = "mcq_prompt"
	MsgProjectPrompt      Key = "project_prompt"
	MsgEmptyPrompt        Key = "empty_prompt"
)

var catalog = map[Language]map[Key]string{
	LanguageEnglish: {
		MsgGenericError:       "An error occurred while fetching data.",
		MsgUnauthorized:       "Your session has expired. Please log in again.",
		MsgNetworkUnavailable: "Could not reach the curriculum service. Check your connection and try again.",
		MsgMalformedPayload:   "The service returned a response we could not read.",
		MsgRejected:           "The service rejected the request.",
		MsgTopicRequired:      "Please provide the topic name.",
		MsgTopicNumeric:       "Topic name should not be a number.",
		MsgCountRequired:      "Please enter a topic and the number of items.",
		MsgTooManyItems:       "We can currently generate up to %d items for you.",
		MsgNoHistory:          "No previous projects found",
		MsgMCQPrompt:          "Generate %d MCQ questions on %s",
		MsgProjectPrompt:      "Generating %d project idea on %s",
		MsgEmptyPrompt:        "Enter topic name for generating projects",
	},
	LanguageChinese: {
		MsgGenericError:       "获取数据时发生错误。",
		MsgUnauthorized:       "登录已过期，请重新登录。",
		MsgNetworkUnavailable: "无法连接课程服务，请检查网络后重试。",
		MsgMalformedPayload:   "服务返回的数据无法解析。",
		MsgRejected:           "服务拒绝了该请求。",
		MsgTopicRequired:      "请输入主题名称。",
		MsgTopicNumeric:       "主题名称不能是数字。",
		MsgCountRequired:      "请输入主题和数量。",
		MsgTooManyItems:       "目前最多只能生成 %d 个。",
		MsgNoHistory:          "暂无历史项目",
		MsgMCQPrompt:          "生成 %d 道关于 %s 的选择题",
		MsgProjectPrompt:      "正在生成 %d 个关于 %s 的项目创意",
		MsgEmptyPrompt:        "输入主题以生成项目",
	},
}

// Text 返回 key 在 lang 下的文案；缺失时回退到英文，再回退到 key 本身。
func Text(lang Language, key Key) string {
	if msgs, ok := catalog[Normalize(string(lang))]; ok {
		if s, ok := msgs[key]; ok {
			return s
		}
	}
	if s, ok := catalog[LanguageEnglish][key]; ok {
		return s
	}
	return string(key)
}

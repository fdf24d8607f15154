package model

// GroupChatMessage 群聊消息，按JSON Lines存放在对象存储中，不入库
type GroupChatMessage struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

package chat

import "TenantPilot/entity"

// Messenger is the rendering boundary. The controller only emits typed
// transcript records; each transport (HTTP collector, Telegram, operator
// console) decides how to present them.
type Messenger interface {
	SendText(chatID, text string) error
	SendMenu(chatID, text string, options []entity.ChatOption) error
	SendTyping(chatID string) error
}

// MessageListener is notified of every transcript record so it can be
// persisted and broadcast without coupling the controller to storage
// or WebSocket packages.
type MessageListener interface {
	SaveAndBroadcastChatMessage(msg entity.ChatMessage)
}

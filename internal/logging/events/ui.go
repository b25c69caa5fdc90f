package events

import "github.com/atomicstack/solar-dashboard/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ChatTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Chat    = ChatTracer{}
	Command = CommandTracer{}
)

func (UITracer) SidebarEnter(path, title, filter string) {
	logging.Trace("sidebar.enter", map[string]interface{}{
		"path":   path,
		"title":  title,
		"filter": filter,
	})
}

func (UITracer) SidebarCursor(cursor int) {
	logging.Trace("sidebar.cursor", map[string]interface{}{"cursor": cursor})
}

func (UITracer) AIPanel(open bool) {
	logging.Trace("ui.ai-panel", map[string]interface{}{"open": open})
}

func (ChatTracer) Submit(message string) {
	logging.Trace("chat.submit", map[string]interface{}{"length": len([]rune(message))})
}

func (ChatTracer) Reply(messageType string) {
	logging.Trace("chat.reply", map[string]interface{}{"messageType": messageType})
}

func (ChatTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("chat.error", map[string]interface{}{"error": err.Error()})
}

func (FilterTracer) Cleared(levelID string) {
	logging.Trace("filter.clear", map[string]interface{}{"level": levelID})
}

func (FilterTracer) WordBackspace(levelID, filter string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Cursor(levelID string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"level": levelID, "cursor": pos})
}

func (FilterTracer) CursorWord(levelID string, pos int) {
	logging.Trace("filter.cursor-word", map[string]interface{}{"level": levelID, "cursor": pos})
}

func (FilterTracer) Append(levelID, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Backspace(levelID, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"level": levelID, "filter": filter})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}

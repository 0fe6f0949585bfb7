package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

type WSHandler struct {
	service       *app.QuizService
	defaultQuizID string
	upgrader      websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, defaultQuizID string) *WSHandler {
	return &WSHandler{
		service:       service,
		defaultQuizID: defaultQuizID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string        `json:"questionId"`
	Answer     domain.Answer `json:"answer"`
}

type togglePayload struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request, starts a timed session and relays its events.
// The session is torn down when the connection closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		quizID = h.defaultQuizID
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Sessions outlive the request context only as long as the connection.
	ctx := context.WithoutCancel(r.Context())

	started, err := h.service.Start(ctx, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := started.SessionID
	defer h.service.Close(ctx, sessionID)

	events, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// Single writer goroutine; gorilla connections allow one concurrent writer.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				glog.V(2).Infof("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "started", Payload: started}

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	replyError := func(message string) {
		reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				replyError("invalid answer payload")
				continue
			}
			if err := h.service.AnswerChange(ctx, sessionID, payload.QuestionID, payload.Answer); err != nil {
				replyError(err.Error())
			}
		case "toggle":
			var payload togglePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				replyError("invalid toggle payload")
				continue
			}
			if _, err := h.service.ToggleOption(ctx, sessionID, payload.QuestionID, payload.OptionID); err != nil {
				replyError(err.Error())
			}
		case "submit":
			result, graded, err := h.service.Submit(ctx, sessionID)
			if err != nil {
				replyError(err.Error())
				continue
			}
			// A fresh grade reaches the client through the session events.
			if !graded {
				reply(outboundMessage[any]{Type: string(domain.EventResult), Payload: domain.SessionEvent{
					Type:      domain.EventResult,
					SessionID: sessionID,
					Result:    &result,
				}})
			}
		default:
			replyError("unsupported message type")
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

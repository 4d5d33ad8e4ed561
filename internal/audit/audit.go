// Package audit defines the audit log sink consumed by the finance and
// workflow services. Events are fire-and-forget from the caller's
// perspective.
package audit

import "go.uber.org/zap"

// Event describes one auditable action.
type Event struct {
	Type        string                 `json:"type"`
	ActorID     string                 `json:"actor_id"`
	ActorName   string                 `json:"actor_name"`
	ActorRole   string                 `json:"actor_role"`
	TargetType  string                 `json:"target_type"`
	TargetID    string                 `json:"target_id"`
	TargetName  string                 `json:"target_name,omitempty"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	IsSystem    bool                   `json:"is_system,omitempty"`
	IsSensitive bool                   `json:"is_sensitive,omitempty"`
}

// Sink receives audit events.
type Sink interface {
	LogEvent(e Event)
}

// ZapSink writes audit events to the structured log.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink writing through the given logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("audit")}
}

// LogEvent implements Sink.
func (s *ZapSink) LogEvent(e Event) {
	fields := []zap.Field{
		zap.String("type", e.Type),
		zap.String("actor_id", e.ActorID),
		zap.String("actor_role", e.ActorRole),
		zap.String("target_type", e.TargetType),
		zap.String("target_id", e.TargetID),
	}
	if e.TargetName != "" {
		fields = append(fields, zap.String("target_name", e.TargetName))
	}
	if len(e.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", e.Metadata))
	}
	if e.IsSensitive {
		fields = append(fields, zap.Bool("sensitive", true))
	}
	s.logger.Info(e.Description, fields...)
}

// NopSink discards events. Used in tests.
type NopSink struct{}

// LogEvent implements Sink.
func (NopSink) LogEvent(Event) {}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Publisher публикует события записей в Kafka.
// Без брокеров работает вхолостую: события только логируются
type Publisher struct {
	writer      messageWriter
	topicPrefix string
	logger      Logger
	now         func() time.Time
}

// NewPublisher создает издателя событий. Пустой brokers выключает публикацию
func NewPublisher(brokers []string, topicPrefix string, logger Logger) *Publisher {
	p := &Publisher{
		topicPrefix: topicPrefix,
		logger:      logger,
		now:         time.Now,
	}
	if len(brokers) == 0 {
		logger.Warn("events: publisher disabled (no kafka brokers configured)")
		return p
	}

	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return p
}

// newPublisherWithWriter для тестов
func newPublisherWithWriter(w messageWriter, topicPrefix string, logger Logger, now func() time.Time) *Publisher {
	return &Publisher{writer: w, topicPrefix: topicPrefix, logger: logger, now: now}
}

// Enabled возвращает true, если события реально уходят в Kafka
func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// AppointmentBooked публикует событие создания записи
func (p *Publisher) AppointmentBooked(ctx context.Context, appt *domain.Appointment, actorID int64) error {
	return p.publish(ctx, Event{
		EventType:   TypeAppointmentBooked,
		Appointment: appointmentData(appt),
		ActorID:     actorID,
	})
}

// AppointmentRescheduled публикует событие переноса записи
func (p *Publisher) AppointmentRescheduled(ctx context.Context, appt, previous *domain.Appointment, actorID int64) error {
	return p.publish(ctx, Event{
		EventType:   TypeAppointmentRescheduled,
		Appointment: appointmentData(appt),
		Previous:    scheduleData(previous),
		ActorID:     actorID,
	})
}

// AppointmentStatusChanged публикует событие смены статуса
func (p *Publisher) AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, from domain.AppointmentStatus, actorID int64) error {
	return p.publish(ctx, Event{
		EventType:   TypeAppointmentStatusChanged,
		Appointment: appointmentData(appt),
		FromStatus:  string(from),
		ToStatus:    string(appt.Status),
		ActorID:     actorID,
	})
}

// Close сбрасывает буфер и закрывает соединения
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, event Event) error {
	event.EventID = uuid.NewString()
	event.OccurredAt = p.now().UTC()

	if p.writer == nil {
		p.logger.Info("events: skip %s for appointment id=%d (publisher disabled)",
			event.EventType, event.Appointment.ID)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncodeEvent, event.EventType, err)
	}

	msg := kafka.Message{
		Topic: p.topicPrefix + event.EventType,
		Key:   []byte(strconv.FormatInt(event.Appointment.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s id=%d: %v", ErrPublish, event.EventType, event.Appointment.ID, err)
	}

	p.logger.Info("events: published %s event_id=%s appointment id=%d",
		event.EventType, event.EventID, event.Appointment.ID)
	return nil
}

// injectTraceHeaders добавляет W3C trace context в заголовки сообщения
func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i, h := range c.headers {
		if h.Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

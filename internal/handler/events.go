package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publishEvent 把领域事件推送到门店看板频道，
// 当天的预约变动还会进通知队列，由 notifier 发邮件提醒店主。
// 事件发送发生在数据库事务提交之后，失败只记日志，不回滚业务结果
func (h *Handler) publishEvent(eventType string, salonID int64, sameDay bool, data any) {
	message := domain.EventMessage{
		Type:    eventType,
		SalonID: salonID,
		Data:    data,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		slog.Error("序列化领域事件失败", "type", eventType, "salonID", salonID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	if err := h.redisClient.Publish(ctx, fmt.Sprintf("salon_events_%d", salonID), payload).Err(); err != nil {
		slog.Error("推送领域事件到看板频道失败", "type", eventType, "salonID", salonID, "error", err)
	}

	if !sameDay {
		return
	}

	mqCtx, mqCancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer mqCancel()

	if err := h.mqChannel.PublishWithContext(
		mqCtx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	); err != nil {
		slog.Error("推送领域事件到通知队列失败", "type", eventType, "salonID", salonID, "error", err)
	}
}

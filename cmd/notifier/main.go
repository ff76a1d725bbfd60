package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/config"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// eventEnvelope 和 domain.EventMessage 的线格式一致，
// 但把 data 保留为原始字节，等确定事件类型后再解码
type eventEnvelope struct {
	Type    string          `json:"type"`
	SalonID int64           `json:"salonID"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 * 通知邮件要发给店主，而事件里只有门店 ID，需要查库找到店主的邮箱
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", slog.String("error", err.Error()))
		return
	}
	defer dbpool.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer pingCancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", slog.String("error", err.Error()))
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	for _, queue := range []string{"email_queue", "notification_queue"} {
		_, err = ch.QueueDeclare(
			queue, // 队列名称
			true,  // 是否持久化
			false, // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
			false, // 是否独占，即是否允许多个消费者访问这个队列
			false, // 是否不等待，设置为 false，即等待 RabbitMQ 确认队列是否创建成功
			nil,   // 额外参数
		)
		if err != nil {
			logger.Error("无法声明队列", slog.String("queue", queue), slog.String("error", err.Error()))
			return
		}
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	emailMsgs, err := ch.Consume("email_queue", "", false, false, false, false, nil)
	if err != nil {
		logger.Error("无法消费 email_queue", slog.String("error", err.Error()))
		os.Exit(1)
	}
	notificationMsgs, err := ch.Consume("notification_queue", "", false, false, false, false, nil)
	if err != nil {
		logger.Error("无法消费 notification_queue", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-emailMsgs:
				handleEmailMessage(logger, cfg, client, msg)
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-notificationMsgs:
				handleNotificationMessage(logger, cfg, client, repo, msg)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	logger.Info("正在关闭 notifier...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	logger.Info("notifier 已成功关闭")
}

// handleEmailMessage 处理验证码一类的直接邮件
func handleEmailMessage(logger *slog.Logger, cfg *config.Config, client *mail.Client, msg amqp.Delivery) {
	logger.Info("收到邮件消息", slog.String("message", string(msg.Body)))

	mailMessage := domain.MailMessage{}
	if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
		logger.Error("邮件信息反序列化失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		logger.Error("无法设置邮件发件人", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(mailMessage.To); err != nil {
		logger.Error("无法设置邮件收件人", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	switch mailMessage.Type {
	case "reset_password":
		tmpl, err := template.ParseFiles("./templates/reset_password_otp_email.html")
		if err != nil {
			logger.Error("无法解析邮件模板", slog.String("error", err.Error()))
			_ = msg.Nack(false, false)
			return
		}
		if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
			logger.Error("无法设置邮件正文", slog.String("error", err.Error()))
			_ = msg.Nack(false, false)
			return
		}
		m.Subject("美约 - 重置密码")
	default:
		logger.Error("不支持的邮件类型", slog.String("type", mailMessage.Type))
		_ = msg.Nack(false, false)
		return
	}

	if err := client.DialAndSend(m); err != nil {
		logger.Error("邮件发送失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, true) // 将消息重新入队
		return
	}

	_ = msg.Ack(false)
}

// handleNotificationMessage 把当天的预约变动转成邮件提醒店主。
// 状态变更事件由店主自己发起，不需要提醒，直接确认丢弃
func handleNotificationMessage(logger *slog.Logger, cfg *config.Config, client *mail.Client, repo *repository.Repository, msg amqp.Delivery) {
	logger.Info("收到通知消息", slog.String("message", string(msg.Body)))

	envelope := eventEnvelope{}
	if err := json.Unmarshal(msg.Body, &envelope); err != nil {
		logger.Error("通知信息反序列化失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	mailData := domain.SameDayBookingMailData{}
	switch envelope.Type {
	case domain.EventBookingCreated:
		data := domain.BookingCreatedData{}
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			logger.Error("预约创建事件反序列化失败", slog.String("error", err.Error()))
			_ = msg.Nack(false, false)
			return
		}
		mailData.StaffName = data.StaffName
		mailData.StartTime = data.StartTime.Format("15:04")
		mailData.EndTime = data.EndTime.Format("15:04")
	case domain.EventBookingCancelled:
		data := domain.BookingCancelledData{}
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			logger.Error("预约取消事件反序列化失败", slog.String("error", err.Error()))
			_ = msg.Nack(false, false)
			return
		}
		mailData.StartTime = data.StartTime.Format("15:04")
		mailData.EndTime = data.EndTime.Format("15:04")
		mailData.Cancelled = true
	default:
		_ = msg.Ack(false)
		return
	}

	salon, err := repo.GetSalonByID(envelope.SalonID)
	if err != nil {
		logger.Error("无法查询门店信息", slog.Int64("salonID", envelope.SalonID), slog.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}
	owner, err := repo.GetUserByID(salon.OwnerID)
	if err != nil {
		logger.Error("无法查询店主信息", slog.Int64("ownerID", salon.OwnerID), slog.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}
	mailData.SalonName = salon.Name

	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		logger.Error("无法设置邮件发件人", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(owner.Email); err != nil {
		logger.Error("无法设置邮件收件人", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	tmpl, err := template.ParseFiles("./templates/same_day_booking_email.html")
	if err != nil {
		logger.Error("无法解析邮件模板", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.SetBodyHTMLTemplate(tmpl, mailData); err != nil {
		logger.Error("无法设置邮件正文", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if mailData.Cancelled {
		m.Subject("美约 - 今日预约已取消")
	} else {
		m.Subject("美约 - 今日新预约")
	}

	if err := client.DialAndSend(m); err != nil {
		logger.Error("邮件发送失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, true) // 将消息重新入队
		return
	}

	_ = msg.Ack(false)
}

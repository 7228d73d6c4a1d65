package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/dto"
	"github.com/haierkeys/projectforge-office-service/pkg/logger"
	"github.com/haierkeys/projectforge-office-service/pkg/mailer"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ReminderConfig 合同再提交提醒配置
type ReminderConfig struct {
	Recipients []string
	Subject    string
}

// ReminderService 合同再提交提醒
type ReminderService interface {
	// SendDueReminders 发送 day 当天到期或需再提交的合同清单，返回合同数量
	SendDueReminders(ctx context.Context, day time.Time) (int, error)
}

type reminderService struct {
	contracts ContractService
	sender    mailer.Sender
	config    ReminderConfig
	logger    *zap.Logger
}

// NewReminderService 创建 ReminderService 实例
func NewReminderService(contracts ContractService, sender mailer.Sender, config ReminderConfig, lg *zap.Logger) ReminderService {
	if config.Subject == "" {
		config.Subject = "Contract reminder"
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &reminderService{contracts: contracts, sender: sender, config: config, logger: lg}
}

func (s *reminderService) SendDueReminders(ctx context.Context, day time.Time) (int, error) {
	contracts, err := s.contracts.DueOn(ctx, day)
	if err != nil {
		return 0, err
	}
	if len(contracts) == 0 || len(s.config.Recipients) == 0 {
		return len(contracts), nil
	}

	msg := mailer.Message{
		To:      s.config.Recipients,
		Subject: fmt.Sprintf("%s %s (%d)", s.config.Subject, day.Format(timex.DateLayout), len(contracts)),
		Body:    reminderBody(contracts, day),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return len(contracts), errors.Wrap(err, "send contract reminder")
	}
	s.logger.Info("contract reminder sent",
		zap.String(logger.FieldEntity, "contract"),
		zap.Int(logger.FieldCount, len(contracts)),
	)
	return len(contracts), nil
}

func reminderBody(contracts []*dto.ContractDTO, day time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Contracts due on %s:\n\n", day.Format(timex.DateLayout))
	for _, c := range contracts {
		fmt.Fprintf(&b, "#%d %s\n", c.Number, c.Title)
		if c.CoContractorB != "" {
			fmt.Fprintf(&b, "  co-contractor: %s\n", c.CoContractorB)
		}
		if c.ResubmissionOnDate != nil {
			fmt.Fprintf(&b, "  resubmission: %s\n", c.ResubmissionOnDate.Time().Format(timex.DateLayout))
		}
		if c.DueDate != nil {
			fmt.Fprintf(&b, "  due: %s\n", c.DueDate.Time().Format(timex.DateLayout))
		}
	}
	return b.String()
}

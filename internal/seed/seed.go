package seed

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/config"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/repository"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/utils"
)

var salonNamePrefixes = []string{
	"悦丝", "美奈", "造型社", "发界", "简约", "艺剪", "星愿", "芳华", "栖梧", "朵拉",
}
var salonNameSuffixes = []string{
	"美发沙龙", "造型工作室", "理发店", "美容美发", "形象设计",
}

// 常见美发服务目录，时长以分钟计，价格以分计
var serviceCatalog = []domain.Service{
	{Name: "洗剪吹", Duration: 45, Price: 6800},
	{Name: "男士理发", Duration: 30, Price: 3800},
	{Name: "染发", Duration: 120, Price: 28800},
	{Name: "烫发", Duration: 150, Price: 38800},
	{Name: "护理", Duration: 60, Price: 12800},
	{Name: "头皮护理", Duration: 45, Price: 9800},
	{Name: "造型设计", Duration: 60, Price: 15800},
}

var openingTimes = []string{"09:00:00", "10:00:00", "10:30:00"}
var closingTimes = []string{"20:00:00", "21:00:00", "22:00:00"}

// SeedDemoSalon 生成一家演示门店：店主账号、门店、员工、服务目录和营业时间
func SeedDemoSalon(r *repository.Repository, cfg *config.Config) error {
	owner, err := utils.GenerateRandomUser(domain.RoleSalonOwner, cfg.Seed.User.Password, cfg.Email.UserDomain)
	if err != nil {
		return fmt.Errorf("生成店主账号失败: %w", err)
	}
	if err := r.CreateUser(owner); err != nil {
		return fmt.Errorf("插入店主账号失败: %w", err)
	}

	salon := &domain.Salon{
		OwnerID: owner.ID,
		Name:    salonNamePrefixes[rand.Intn(len(salonNamePrefixes))] + salonNameSuffixes[rand.Intn(len(salonNameSuffixes))],
		Address: fmt.Sprintf("示例市示例区示例路 %d 号", rand.Intn(500)+1),
		Phone:   utils.GenerateRandomPhone(),
	}
	if err := r.CreateSalon(salon); err != nil {
		return fmt.Errorf("插入门店失败: %w", err)
	}

	staffCount := rand.Intn(4) + 2
	for i := 0; i < staffCount; i++ {
		staff := &domain.Staff{
			SalonID: salon.ID,
			Name:    utils.GenerateRandomChineseName(),
		}
		if err := r.CreateStaff(staff); err != nil {
			return fmt.Errorf("插入员工失败: %w", err)
		}
	}

	// 每家店从目录里抽取一部分服务
	serviceCount := rand.Intn(len(serviceCatalog)-2) + 3
	for _, i := range rand.Perm(len(serviceCatalog))[:serviceCount] {
		service := serviceCatalog[i]
		service.SalonID = salon.ID
		if err := r.CreateService(&service); err != nil {
			return fmt.Errorf("插入服务失败: %w", err)
		}
	}

	schedule := &domain.OperatingSchedule{
		SalonID:     salon.ID,
		OpeningTime: openingTimes[rand.Intn(len(openingTimes))],
		ClosingTime: closingTimes[rand.Intn(len(closingTimes))],
	}
	// 小部分门店每周一休息
	if rand.Intn(3) == 0 {
		schedule.ClosedWeekdays = []int32{1}
	}
	if err := r.UpsertOperatingSchedule(schedule); err != nil {
		return fmt.Errorf("插入营业时间失败: %w", err)
	}

	slog.Info("演示门店已创建", "salon", salon.Name, "owner", owner.Username, "staff", staffCount)
	return nil
}

// SeedCustomers 批量生成随机顾客账号，返回成功插入的数量
func SeedCustomers(r *repository.Repository, cfg *config.Config, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(domain.RoleCustomer, cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("无法生成随机顾客", slog.String("error", err.Error()))
			continue
		}
		if err := r.CreateUser(user); err != nil {
			slog.Error("无法插入顾客", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	return cnt
}

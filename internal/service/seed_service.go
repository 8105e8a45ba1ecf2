package service

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/repository"
)

// SeedService генерирует фейковые данные для тестирования.
type SeedService struct {
	userRepo    *repository.UserRepository
	messageRepo *repository.MessageRepository
	crowdRepo   *repository.CrowdfundingRepository
}

// NewSeedService создаёт новый сервис для генерации данных.
func NewSeedService(userRepo *repository.UserRepository, messageRepo *repository.MessageRepository, crowdRepo *repository.CrowdfundingRepository) *SeedService {
	return &SeedService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		crowdRepo:   crowdRepo,
	}
}

// SeedData генерирует фейковых пользователей, переписку и проекты.
// Переписка нужна, чтобы правило допуска рекомендаций имело данные.
func (s *SeedService) SeedData(ctx context.Context, numUsers, numProjects int) error {
	users, err := s.generateUsers(ctx, numUsers)
	if err != nil {
		return fmt.Errorf("seed service: failed to generate users: %w", err)
	}

	var customers, specialists []*models.User
	for _, user := range users {
		if user.Role == models.RoleCustomer {
			customers = append(customers, user)
		} else {
			specialists = append(specialists, user)
		}
	}

	if err := s.generateMessages(ctx, customers, specialists); err != nil {
		return fmt.Errorf("seed service: failed to generate messages: %w", err)
	}

	if err := s.generateProjects(ctx, specialists, numProjects); err != nil {
		return fmt.Errorf("seed service: failed to generate projects: %w", err)
	}

	return nil
}

// generateUsers создаёт фейковых пользователей с профилями.
func (s *SeedService) generateUsers(ctx context.Context, count int) ([]*models.User, error) {
	firstNames := []string{
		"Александр", "Дмитрий", "Максим", "Сергей", "Андрей", "Алексей", "Артём", "Илья",
		"Анна", "Мария", "Елена", "Ольга", "Татьяна", "Наталья", "Ирина", "Светлана",
	}
	lastNames := []string{
		"Иванов", "Петров", "Смирнов", "Козлов", "Соколов", "Попов", "Лебедев", "Новиков",
		"Морозов", "Волков", "Васильев", "Зайцев", "Павлов", "Семёнов", "Фёдоров", "Белов",
	}
	cities := []string{"Москва", "Санкт-Петербург", "Казань", "Екатеринбург", "Новосибирск", "Сочи"}
	agencies := []string{"Этажи", "Миэль", "Инком", "Дом-Эксперт", "Квадрат", "Новострой-М"}
	roles := []string{models.RoleCustomer, models.RoleCustomer, models.RoleAgent, models.RoleServiceProvider}

	passHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		firstName := firstNames[rand.Intn(len(firstNames))]
		lastName := lastNames[rand.Intn(len(lastNames))]
		role := roles[rand.Intn(len(roles))]

		user := &models.User{
			Email:        fmt.Sprintf("seed_user_%d_%d@example.com", i, rand.Intn(100000)),
			Username:     fmt.Sprintf("seed_user_%d_%d", i, rand.Intn(100000)),
			PasswordHash: string(passHash),
			Role:         role,
			IsActive:     true,
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}

		city := cities[rand.Intn(len(cities))]
		profile := &models.Profile{
			UserID:      user.ID,
			DisplayName: firstName + " " + lastName,
			Location:    &city,
		}
		if role == models.RoleAgent {
			agency := agencies[rand.Intn(len(agencies))]
			license := fmt.Sprintf("АГ-%06d", rand.Intn(1000000))
			profile.AgencyName = &agency
			profile.LicenseNumber = &license
		}

		if err := s.userRepo.UpsertProfile(ctx, profile); err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, nil
}

// generateMessages создаёт переписку клиентов со специалистами.
func (s *SeedService) generateMessages(ctx context.Context, customers, specialists []*models.User) error {
	if len(customers) == 0 || len(specialists) == 0 {
		return nil
	}

	bodies := []string{
		"Здравствуйте! Ищу двухкомнатную квартиру в вашем районе.",
		"Добрый день, подскажите по ипотечным программам.",
		"Интересует просмотр объекта на этой неделе.",
		"Можно узнать подробнее об условиях сделки?",
		"Спасибо за консультацию, жду подборку вариантов.",
	}

	for _, customer := range customers {
		specialist := specialists[rand.Intn(len(specialists))]
		message := &models.Message{
			SenderID:    customer.ID,
			RecipientID: specialist.ID,
			Body:        bodies[rand.Intn(len(bodies))],
		}
		if err := s.messageRepo.Create(ctx, message); err != nil {
			return err
		}
	}

	return nil
}

// generateProjects создаёт краудфандинговые проекты.
func (s *SeedService) generateProjects(ctx context.Context, creators []*models.User, count int) error {
	if len(creators) == 0 || count == 0 {
		return nil
	}

	titles := []string{
		"Апарт-отель на набережной",
		"Реновация исторического особняка",
		"Коттеджный посёлок у озера",
		"Коворкинг в центре города",
		"Доходный дом с арендными студиями",
	}
	categories := []string{"residential", "commercial", "renovation"}

	for i := 0; i < count; i++ {
		creator := creators[rand.Intn(len(creators))]
		project := &models.Project{
			CreatorID:          creator.ID,
			Title:              fmt.Sprintf("%s #%d", titles[rand.Intn(len(titles))], i+1),
			Description:        "Инвестиционный проект недвижимости с поэтапным финансированием.",
			Category:           categories[rand.Intn(len(categories))],
			TargetAmountCents:  int64(rand.Intn(90)+10) * 1_000_000,
			MinInvestmentCents: int64(rand.Intn(9)+1) * 100_000,
			Status:             models.ProjectStatusActive,
		}
		if err := s.crowdRepo.CreateProject(ctx, project); err != nil {
			return err
		}
	}

	return nil
}

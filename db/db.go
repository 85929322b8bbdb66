package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	log.Printf("Connecting to postgres: %s@%s:%d/%s", c.PostgresUser, c.PostgresHost, c.PostgresPort, c.PostgresDB)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{ID: uuid.New(), Name: models.RoleAdmin},
		{ID: uuid.New(), Name: models.RoleUser},
		{ID: uuid.New(), Name: models.RoleTutor},
	}

	for _, role := range roles {
		if err := db.FirstOrCreate(&role, models.Role{Name: role.Name}).Error; err != nil {
			return err
		}
	}

	return nil
}

func SeedSubscriptionPlans(db *gorm.DB) error {
	plans := []models.SubscriptionPlan{
		{Name: "Monthly", Amount: 2500, DurationDays: 30},
		{Name: "Quarterly", Amount: 6500, DurationDays: 90},
		{Name: "Yearly", Amount: 22000, DurationDays: 365},
	}

	for _, plan := range plans {
		if err := db.FirstOrCreate(&plan, models.SubscriptionPlan{Name: plan.Name}).Error; err != nil {
			return err
		}
	}

	return nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Blacklist{},
		&models.Notification{},
		&models.Course{},
		&models.Class{},
		&models.Enrollment{},
		&models.ForumThread{},
		&models.ForumPost{},
		&models.SubscriptionPlan{},
		&models.Payment{},
		&models.Subscription{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("seeding roles error: %v", err)
	}

	if err := SeedSubscriptionPlans(db); err != nil {
		return fmt.Errorf("seeding subscription plans error: %v", err)
	}

	return nil
}

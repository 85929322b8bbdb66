package main

import (
	"log"

	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/db"
	"github.com/mindboosthq/mindboost-api/mailingservices"
	"github.com/mindboosthq/mindboost-api/realtime"
	"github.com/mindboosthq/mindboost-api/server"
	"github.com/mindboosthq/mindboost-api/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize Mailgun client
	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	gormDB := db.GetDB(conf)

	authRepo := db.NewAuthRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)
	courseRepo := db.NewCourseRepo(gormDB)
	forumRepo := db.NewForumRepo(gormDB)
	paymentRepo := db.NewPaymentRepo(gormDB)
	quizRepo := db.NewQuizRepo(gormDB)

	hub := realtime.NewHub()

	notificationService := services.NewNotificationService(notificationRepo, hub)
	authService := services.NewAuthService(authRepo, notificationService, mailgunClient, conf)
	courseService := services.NewCourseService(courseRepo, paymentRepo, notificationService, conf)
	forumService := services.NewForumService(forumRepo, notificationService, conf)
	paymentService := services.NewPaymentService(paymentRepo, notificationService, conf)
	aiService := services.NewAIService(quizRepo, notificationService, conf)
	mediaService := services.NewMediaService(authRepo, conf)

	s := &server.Server{
		Mail:                   mailgunClient,
		Config:                 conf,
		AuthRepository:         authRepo,
		NotificationRepository: notificationRepo,
		AuthService:            authService,
		NotificationService:    notificationService,
		CourseService:          courseService,
		ForumService:           forumService,
		PaymentService:         paymentService,
		AIService:              aiService,
		MediaService:           mediaService,
		Hub:                    hub,
		DB:                     db.GormDB{},
	}

	s.Start()
}

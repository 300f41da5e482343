package boot

import (
	"context"
	"log"
	"time"

	"travl/src/common"
	"travl/src/config"
	"travl/src/db"
	"travl/src/lib"
	awslib "travl/src/lib/aws"
	"travl/src/repository"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	conn := db.GetDb()
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	return conn
}

func InitRepository(c *config.Config) repository.BookingRepository {
	if c.BookingStore == "postgres" {
		log.Println("[Bookings] using postgres store")
		return repository.NewGormBookingRepository(InitDb())
	}
	log.Println("[Bookings] using in-memory store")
	return repository.NewMemoryBookingRepository()
}

func InitWalletStore() lib.WalletOrderStore {
	if rdb := lib.GetRedisClient(); rdb != nil {
		if err := lib.PingRedis(context.Background(), rdb); err == nil {
			return lib.NewRedisWalletStore(rdb)
		}
	}
	log.Println("[Wallet] Redis unavailable, keeping orders in memory")
	return lib.NewMemoryWalletStore()
}

// InitScheduler sends check-in reminders every morning.
func InitScheduler(c *config.Config, svc *common.BookingService) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	_, err = lib.ScheduleDaily(sched, "checkin-reminders", c.ReminderTime, func(ctx context.Context) error {
		_, err := common.SendCheckinReminders(ctx, svc, time.Now(), c.SMTP.From, lib.SendMail)
		return err
	})
	if err != nil {
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err = sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

// InitBroker starts the booking event consumer for the configured broker.
func InitBroker(ctx context.Context, c *config.Config) {
	handler := common.NewBookingMailHandler(c.SMTP.From, lib.SendMail)
	switch c.Events.Broker {
	case "kafka":
		if _, err := lib.KafkaCreateTopics(ctx, c.Events.Kafka, c.Events.Topic); err != nil {
			log.Printf("[Kafka] topic setup skipped: %s\n", err.Error())
		}
		if err := lib.KafkaConsumer(ctx, c.Events.Kafka, c.Events.Group, c.Events.Topic, handler); err != nil {
			log.Printf("[Kafka] consumer not started: %s\n", err.Error())
		}
	case "sqs":
		client := lib.AWSGetSQSClient()
		if client == nil {
			log.Println("[SQS] consumer not started")
			return
		}
		awslib.NewSQSConsumer(c.Events.Queue, client, handler).Listen(ctx)
	default:
		log.Println("[Events] no broker configured")
	}
}

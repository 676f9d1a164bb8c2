package main

import (
	"time"

	_ "time/tzdata"

	"github.com/TranHoa21/Mufilika/config"
	"github.com/TranHoa21/Mufilika/internal/app"
	"github.com/TranHoa21/Mufilika/internal/infrastructure/database/postgres"
	"github.com/TranHoa21/Mufilika/internal/infrastructure/message-queue/kafka"
	"github.com/go-co-op/gocron/v2"
)

func main() {
	conf := config.CreateNewConfig()

	db, err := postgres.GetDBInstance(conf.PostgreSQLConfig.DBUsername, conf.PostgreSQLConfig.DBPassword, conf.PostgreSQLConfig.DBHost, conf.PostgreSQLConfig.DBPort, conf.PostgreSQLConfig.DBName)
	if err != nil {
		panic(err)
	}

	kafkaProducer := kafka.CreateKafkaProducer(conf)

	a := app.CreateApp(db, kafkaProducer, conf)

	s, err := gocron.NewScheduler()
	if err != nil {
		panic(err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			time.Minute,
		),
		gocron.NewTask(
			a.BookingService.ExpirePendingBookings,
		),
	)
	if err != nil {
		panic(err)
	}

	s.Start()

	a.Start()
}

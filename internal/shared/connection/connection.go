package connection

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectGORMWithRetry(
	host, user, password, dbname, port, sslmode string,
	maxRetries int,
) (*gorm.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode,
	)

	db, err := backoff.Retry(context.Background(), func() (*gorm.DB, error) {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}

		if err := sqlDB.Ping(); err != nil {
			return nil, err
		}

		// Pool config
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)

		return db, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(maxRetries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("⚠️ DB connect failed, retrying in %s: %v", next, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("database connection failed after %d retries: %w", maxRetries, err)
	}

	log.Println("✅ GORM connected to database")
	return db, nil
}

// ConnectKafkaWithRetry probes the broker first so a down Kafka fails fast
// at startup instead of at the first publish.
func ConnectKafkaWithRetry(broker string, maxRetries int) (*kafkago.Writer, error) {
	_, err := backoff.Retry(context.Background(), func() (struct{}, error) {
		conn, err := kafkago.Dial("tcp", broker)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, conn.Close()
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(maxRetries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("⚠️ Kafka connect failed, retrying in %s: %v", next, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka connection failed after %d retries: %w", maxRetries, err)
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}

	log.Println("✅ Connected to Kafka")
	return writer, nil
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	_, err := backoff.Retry(context.Background(), func() (struct{}, error) {
		return struct{}{}, rdb.Ping(context.Background()).Err()
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(maxRetries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("⚠️ Redis connect failed, retrying in %s: %v", next, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("redis connection failed after %d retries: %w", maxRetries, err)
	}

	log.Println("✅ Connected to Redis")
	return rdb, nil
}

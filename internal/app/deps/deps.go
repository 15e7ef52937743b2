package deps

import (
	"apptreminder/internal/config"
	dl "apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	delivernotification "apptreminder/internal/core/services/deliver_notification"
	"apptreminder/internal/db"
	cancellationregistry "apptreminder/internal/implementations/cancellation_registry"
	"apptreminder/internal/implementations/deliverer"
	"apptreminder/internal/implementations/kvstorage"
	"apptreminder/internal/implementations/logging"
	notificationbackend "apptreminder/internal/implementations/notification_backend"
	reminderstore "apptreminder/internal/implementations/reminder_store"
	"apptreminder/internal/rabbitmq"
	notificationpublisher "apptreminder/internal/rabbitmq/publishers/notification_publisher"
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/godbus/dbus/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/r3labs/sse/v2"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB        *pgxpool.Pool
	Redis     *redis.Client
	Rabbitmq  *rabbitmq.Connection
	SseServer *sse.Server

	Now func() time.Time

	Storage  reminder.KeyValueStorage
	Store    reminder.Store
	Registry reminder.CancellationRegistry

	Dispatcher          *deliverer.Dispatcher
	DeliverNotification services.Service[delivernotification.Input, delivernotification.Result]

	NotificationPublisher *notificationpublisher.RabbitMQ
	NotificationBackend   reminder.NotificationBackend
	LocalBackend          *notificationbackend.Local
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.Now = func() time.Time { return time.Now().UTC() }

	closeLogger := deps.initLogger()
	closeRedisClient := deps.initRedisClient()
	closeStorage := deps.initStorage()
	deps.Store = reminderstore.New(deps.Logger, deps.Storage)
	deps.initRegistry()

	closeSseServer := deps.initSseServer()
	closeDispatcher := deps.initDispatcher()
	deps.DeliverNotification = delivernotification.New(deps.Logger, deps.Registry, deps.Dispatcher)

	closeBackend := deps.initNotificationBackend()

	return deps, func() {
		closeFuncs := []func(){
			closeSseServer,
			closeBackend,
			closeDispatcher,
			closeStorage,
			closeRedisClient,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeLogger()
	}
}

// RestoreTimers re-arms in-process timers from the store. It does nothing
// for the rabbitmq backend, whose messages outlive the process.
func (deps *Deps) RestoreTimers(ctx context.Context) {
	if deps.LocalBackend == nil {
		return
	}
	deps.LocalBackend.Restore(ctx, deps.Store.List(ctx))
}

func (deps *Deps) DisplayBehavior() reminder.DisplayBehavior {
	return reminder.DisplayBehavior{
		ShowAlert:  deps.Config.DisplayShowAlert,
		PlaySound:  deps.Config.DisplayPlaySound,
		SetBadge:   deps.Config.DisplaySetBadge,
		ShowBanner: deps.Config.DisplayShowBanner,
		ShowList:   deps.Config.DisplayShowList,
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LogLevel, deps.Config.LogDevelopment)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initRedisClient() func() {
	if deps.Config.RedisURL == "" {
		return func() {}
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initStorage() func() {
	switch deps.Config.Storage {
	case config.StorageRedis:
		deps.Storage = kvstorage.NewRedis(deps.Redis, deps.Config.RedisPrefix)
		return func() {}
	case config.StoragePostgres:
		return deps.initPgxPool()
	default:
		return deps.initSqlite()
	}
}

func (deps *Deps) initPgxPool() func() {
	if err := db.ApplyMigrations(deps.Config.PostgresqlURL, deps.Config.MigrationsDir); err != nil {
		deps.Logger.Error(context.Background(), "Could not apply DB migrations.", dl.Entry("err", err))
		panic(err)
	}
	pool, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	deps.Storage = kvstorage.NewPostgres(pool)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initSqlite() func() {
	storage, err := kvstorage.OpenSqlite(context.Background(), deps.Config.SqlitePath)
	if err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not open sqlite database.",
			dl.Entry("err", err),
			dl.Entry("path", deps.Config.SqlitePath),
		)
		panic(err)
	}
	deps.Storage = storage
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down sqlite database.")
		storage.Close()
		deps.Logger.Info(context.Background(), "Sqlite database shut down.")
	}
}

func (deps *Deps) initRegistry() {
	if deps.Redis != nil {
		deps.Registry = cancellationregistry.NewRedis(deps.Redis, deps.Config.RedisPrefix, deps.Now)
		return
	}
	deps.Registry = cancellationregistry.NewMemory(deps.Now)
}

func (deps *Deps) initSseServer() func() {
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = true
	deps.SseServer.AutoReplay = false
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initDispatcher() func() {
	deps.Dispatcher = deliverer.NewDispatcher(deps.Logger)
	deps.Dispatcher.ConfigureDisplayBehavior(deps.DisplayBehavior())

	closeFuncs := make([]func(), 0)
	for _, name := range deps.Config.Deliverers {
		switch name {
		case config.DelivererSSE:
			deps.Dispatcher.Register(name, deliverer.NewSSE(deps.SseServer))
		case config.DelivererDbus:
			conn, err := dbus.SessionBus()
			if err != nil {
				deps.Logger.Warning(
					context.Background(),
					"Session bus is not available, desktop notifications are disabled.",
					dl.Entry("err", err),
				)
				continue
			}
			deps.Dispatcher.Register(name, deliverer.NewDbus(conn, deps.Config.DbusAppName))
			closeFuncs = append(closeFuncs, func() { conn.Close() })
		case config.DelivererTelegram:
			bot, err := tg.NewBotAPI(deps.Config.TelegramToken)
			if err != nil {
				deps.Logger.Error(context.Background(), "Could not authorize Telegram bot.", dl.Entry("err", err))
				panic(err)
			}
			deps.Dispatcher.Register(name, deliverer.NewTelegram(bot, deps.Config.TelegramChatID))
		case config.DelivererEmail:
			deps.initAwsConfig()
			deps.Dispatcher.Register(
				name,
				deliverer.NewEmail(deps.AwsConfig, deps.Config.EmailSender, deps.Config.EmailRecipient),
			)
		}
	}
	deps.Logger.Info(context.Background(), "Deliverers registered.", dl.Entry("deliverers", deps.Config.Deliverers))

	return func() {
		for _, closeFunc := range closeFuncs {
			closeFunc()
		}
	}
}

func (deps *Deps) initNotificationBackend() func() {
	if deps.Config.NotificationBackend == config.BackendRabbitmq {
		closeRabbitmqConn := deps.initRabbitmqConnection()
		closePublisher := deps.initRabbitmqNotificationPublisher()
		deps.NotificationBackend = notificationbackend.NewDelayed(
			deps.Logger,
			deps.NotificationPublisher,
			deps.Registry,
			deps.Now,
		)
		return func() {
			closePublisher()
			closeRabbitmqConn()
		}
	}

	deps.LocalBackend = notificationbackend.NewLocal(
		deps.Logger,
		deps.Dispatcher,
		deps.Registry,
		deps.DeliverNotification,
		deps.Now,
	)
	deps.NotificationBackend = deps.LocalBackend
	return func() {
		deps.Logger.Info(context.Background(), "Stopping local notification timers.")
		deps.LocalBackend.Close()
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initRabbitmqNotificationPublisher() func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	err = rabbitmq.DeclareDelayedQueue(
		rabbitmqChannel,
		deps.Config.RabbitmqDelayedExchange,
		deps.Config.RabbitmqNotificationQueue,
	)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not declare RabbitMQ topology.", dl.Entry("err", err))
		panic(err)
	}

	deps.NotificationPublisher = notificationpublisher.NewRabbitMQ(
		deps.Logger,
		deps.Rabbitmq,
		rabbitmqChannel,
		deps.Config.RabbitmqDelayedExchange,
		deps.Config.RabbitmqNotificationQueue,
		deps.Now,
	)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down notification publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Notification publisher shut down.")
	}
}

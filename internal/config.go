package internal

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,required=true" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	GroupsFilepath string `env:"GROUPS_FILEPATH,required=true" validate:"required"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true" validate:"required"`

	HTTPEnabled bool   `env:"HTTP_ENABLED,default=false"`
	Host        string `env:"HOST,default=127.0.0.1"`
	Port        int    `env:"PORT,default=8080" validate:"min=1,max=65535"`

	NumberOfWorkers int           `env:"NUMBER_OF_WORKERS,required=true" validate:"min=1"`
	BufferSize      int           `env:"BUFFER_SIZE,required=true" validate:"min=1"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s" validate:"gt=0"`

	// ServicesTimeout bounds every request/reply round trip with the world.
	ServicesTimeout time.Duration `env:"SERVICES_TIMEOUT,default=10s" validate:"gt=0"`

	CallbackQueueLength     int           `env:"CALLBACK_QUEUE_LENGTH,default=100" validate:"min=1"`
	CallbackThrottle        time.Duration `env:"CALLBACK_THROTTLE,default=0s" validate:"gte=0"`
	NotificationQueueLength int           `env:"NOTIFICATION_QUEUE_LENGTH,default=100" validate:"min=1"`
	NotificationThrottle    time.Duration `env:"NOTIFICATION_THROTTLE,default=0s" validate:"gte=0"`
	DeliveryTimeout         time.Duration `env:"DELIVERY_TIMEOUT,default=5s" validate:"gt=0"`

	EnableRLV         bool `env:"ENABLE_RLV,default=true"`
	RLVRemoveOnRevoke bool `env:"RLV_REMOVE_ON_REVOKE,default=false"`

	AgentFirstName string `env:"AGENT_FIRST_NAME,required=true" validate:"required"`
	AgentLastName  string `env:"AGENT_LAST_NAME,required=true" validate:"required"`
}

// LoadConfig reads an optional .env file then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, err
	}
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) AgentName() string {
	return c.AgentFirstName + " " + c.AgentLastName
}

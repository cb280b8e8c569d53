package config

type App struct {
	Port        string `envconfig:"APP_PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" default:"local_dev_secret"`
	Env         string `envconfig:"APP_ENV" default:"dev"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	// payment gateway
	OmisePublicKey  string `envconfig:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey  string `envconfig:"OMISE_SECRET_KEY"`
	PaymentCurrency string `envconfig:"PAYMENT_CURRENCY" default:"usd"`

	// booking
	FreeDaysPerMonth int `envconfig:"FREE_DAYS_PER_MONTH" default:"0"`
	MaxBookingDays   int `envconfig:"MAX_BOOKING_DAYS" default:"366"`

	// events, disabled when RABBIT_URL is empty
	RabbitURL     string `envconfig:"RABBIT_URL"`
	OrderExchange string `envconfig:"ORDER_EXCHANGE" default:"orders.exchange"`
}

package email

// Config holds outbound email configuration. The Postmark tokens are
// optional so development environments can run with the file-based sender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@rentals.io"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@rentals.io"`
	DevOutputDir         string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

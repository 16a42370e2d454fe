package config

// AMQPConfig controls publication of auth audit events.  An empty URL
// disables both the publisher and the audit consumer.
type AMQPConfig struct {
	URL          string
	Queue        string
	AuditLogPath string
	Consume      bool
}

// LoadAMQPConfig reads the broker settings.  RABBITMQ_URL wins over AMQP_URL.
func LoadAMQPConfig() AMQPConfig {
	url := envStr("RABBITMQ_URL", "")
	if url == "" {
		url = envStr("AMQP_URL", "")
	}
	return AMQPConfig{
		URL:          url,
		Queue:        envStr("AUTH_EVENTS_QUEUE", "auth.events"),
		AuditLogPath: envStr("AUTH_AUDIT_LOG", "logs/auth.log"),
		Consume:      envBool("AUTH_AUDIT_CONSUMER", true),
	}
}

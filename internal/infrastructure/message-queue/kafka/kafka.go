package kafka

import (
	"context"

	"github.com/TranHoa21/Mufilika/config"
	"github.com/segmentio/kafka-go"
)

func CreateKafkaProducer(config *config.Config) *kafka.Conn {
	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		panic(err)
	}

	return conn
}

package kafka

import "context"

// Publisher 绑定 topic 的事件发布器，实现 service.EventPublisher
type Publisher struct {
	topic string
}

func NewPublisher(topic string) *Publisher {
	return &Publisher{topic: topic}
}

func (p *Publisher) PublishVideoEvent(ctx context.Context, event *VideoEvent) error {
	return SendVideoEvent(ctx, p.topic, event)
}

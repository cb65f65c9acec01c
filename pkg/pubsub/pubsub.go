package pubsub

import (
	"context"
	"time"
)

type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	Subscribe(context.Context)
	Stop(context.Context) error
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/baltotest/freight-api/config"
	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/internal/container"
	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/pkg/helpers"
)

const demoPassword = "password123"

var demoUsers = []application.RegisterInput{
	{Name: "Demo Broker", Email: "broker@example.com", Role: string(entity.RoleBroker)},
	{Name: "Demo Customer", Email: "customer@example.com", Role: string(entity.RoleCustomer)},
	{Name: "Demo Carrier", Email: "carrier@example.com", Role: string(entity.RoleCarrier)},
}

var demoChannels = []application.ChannelInput{
	{Type: string(entity.ChannelEmail), Name: "Email", Description: "Email notifications", Active: true},
	{Type: string(entity.ChannelSMS), Name: "SMS", Description: "Text messages", Active: true},
	{Type: string(entity.ChannelChat), Name: "Chat", Description: "In-app chat", Active: true},
	{Type: string(entity.ChannelPhone), Name: "Phone", Description: "Call log", Active: false},
}

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer func() { _ = c.Close() }()

	for _, in := range demoUsers {
		in.Password = demoPassword
		res, err := c.Auth.Register(ctx, in)
		switch {
		case errors.Is(err, application.ErrDuplicateEmail):
			fmt.Printf("user exists: %s\n", in.Email)
		case err != nil:
			log.Fatalf("seed user %s: %v", in.Email, err)
		default:
			fmt.Printf("seeded user: id=%s email=%s role=%s password=%s\n", res.User.ID, in.Email, in.Role, demoPassword)
		}
	}

	for _, in := range demoChannels {
		existing, err := c.Channels.ListByType(ctx, in.Type)
		if err != nil {
			log.Fatalf("list channels %s: %v", in.Type, err)
		}
		if len(existing) > 0 {
			fmt.Printf("channel exists: %s\n", in.Type)
			continue
		}
		ch, err := c.Channels.Create(ctx, in)
		if err != nil {
			log.Fatalf("seed channel %s: %v", in.Name, err)
		}
		fmt.Printf("seeded channel: id=%s type=%s active=%v\n", ch.ID, ch.Type, ch.Active)
	}
}

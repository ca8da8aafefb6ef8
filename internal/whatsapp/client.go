// Package whatsapp sends invitations through a linked WhatsApp device and
// turns chat replies into RSVP answers.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"eventInvite/internal/messaging"
)

var ErrNotOnWhatsApp = errors.New("number is not registered on WhatsApp")

type Config struct {
	DataDir string
}

// IncomingHandler receives the sender's number (international digits) and the
// message text.
type IncomingHandler func(ctx context.Context, phone, text string)

type Client struct {
	client   *whatsmeow.Client
	cfg      Config
	log      zerolog.Logger
	incoming IncomingHandler
}

func NewClient(ctx context.Context, cfg Config, log *zerolog.Logger) (*Client, error) {
	if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	wl := log.With().Str("component", "whatsapp").Logger()

	dsn := fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir)
	container, err := sqlstore.New(ctx, "sqlite3", dsn, waLog.Zerolog(wl.With().Str("module", "store").Logger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create device store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	c := &Client{
		client: whatsmeow.NewClient(device, waLog.Zerolog(wl.With().Str("module", "client").Logger())),
		cfg:    cfg,
		log:    wl,
	}
	c.client.AddEventHandler(c.eventHandler)
	return c, nil
}

// OnIncoming sets the handler for text messages from other users.
func (c *Client) OnIncoming(h IncomingHandler) {
	c.incoming = h
}

// Connect logs in with the stored device. A device that was never paired
// prints pairing codes and writes the latest one to pair.png in the data dir.
func (c *Client) Connect(ctx context.Context) error {
	if c.client.Store.ID != nil {
		if err := c.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, err := c.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pairing channel: %w", err)
	}
	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	go func() {
		pngPath := filepath.Join(c.cfg.DataDir, "pair.png")
		for evt := range qrChan {
			if evt.Event != "code" {
				c.log.Info().Str("event", evt.Event).Msg("pairing event")
				continue
			}
			if err := qrcode.WriteFile(evt.Code, qrcode.Medium, 256, pngPath); err != nil {
				c.log.Error().Err(err).Msg("failed to write pairing code")
			}
			if q, err := qrcode.New(evt.Code, qrcode.Medium); err == nil {
				fmt.Println("\n" + q.ToSmallString(false))
			}
			c.log.Info().Str("png", pngPath).Msg("scan the pairing code from WhatsApp > Linked Devices")
		}
	}()
	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect()
}

func (c *Client) resolve(ctx context.Context, phone string) (types.JID, error) {
	number := messaging.International(phone)
	resp, err := c.client.IsOnWhatsApp(ctx, []string{"+" + number})
	if err != nil {
		return types.JID{}, fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return types.JID{}, fmt.Errorf("%w: %s", ErrNotOnWhatsApp, number)
	}
	return resp[0].JID, nil
}

func (c *Client) SendText(ctx context.Context, phone, text string) error {
	jid, err := c.resolve(ctx, phone)
	if err != nil {
		return err
	}
	if _, err := c.client.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendImage uploads the invitation and sends it with caption underneath.
func (c *Client) SendImage(ctx context.Context, phone string, image []byte, mimeType, caption string) error {
	jid, err := c.resolve(ctx, phone)
	if err != nil {
		return err
	}

	up, err := c.client.Upload(ctx, image, whatsmeow.MediaImage)
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	msg := &waE2E.Message{ImageMessage: &waE2E.ImageMessage{
		Caption:       proto.String(caption),
		Mimetype:      proto.String(mimeType),
		URL:           proto.String(up.URL),
		DirectPath:    proto.String(up.DirectPath),
		MediaKey:      up.MediaKey,
		FileEncSHA256: up.FileEncSHA256,
		FileSHA256:    up.FileSHA256,
		FileLength:    proto.Uint64(up.FileLength),
	}}
	sent, err := c.client.SendMessage(ctx, jid, msg)
	if err != nil {
		return fmt.Errorf("failed to send image: %w", err)
	}
	c.log.Debug().Str("jid", jid.String()).Str("id", sent.ID).Msg("invitation sent")
	return nil
}

func (c *Client) eventHandler(evt interface{}) {
	switch evt := evt.(type) {
	case *events.Message:
		c.handleMessage(evt)
	case *events.Connected:
		c.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		c.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		c.log.Warn().Msg("Logged out from WhatsApp")
	}
}

func (c *Client) handleMessage(msg *events.Message) {
	if msg.Info.IsFromMe || msg.Message == nil || c.incoming == nil {
		return
	}
	text := msg.Message.GetConversation()
	if text == "" {
		text = msg.Message.GetExtendedTextMessage().GetText()
	}
	if text == "" {
		return
	}
	c.incoming(context.Background(), msg.Info.Sender.User, text)
}

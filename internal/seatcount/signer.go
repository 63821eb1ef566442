// Package seatcount issues and verifies signed seat counts. The signed token
// lets the upgrade form carry the quoted seat count back to the server without
// trusting the client or holding server-side session state.
package seatcount

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/seatwise/internal/clock"
	"github.com/smallbiznis/seatwise/internal/config"
	realmdomain "github.com/smallbiznis/seatwise/internal/realm/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTampered = errors.New("tampered_seat_count")
	ErrExpired  = errors.New("expired_seat_count")
)

// SignedCount binds a seat count to a salt and issuance time.
type SignedCount struct {
	Count  int64
	Signed string
	Salt   string
}

type Signer struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	cfg       *config.BillingConfigHolder
	realmRepo realmdomain.Repository

	fallbackSecret []byte
}

func NewSigner(db *gorm.DB, log *zap.Logger, clk clock.Clock, cfg *config.BillingConfigHolder, realmRepo realmdomain.Repository) *Signer {
	s := &Signer{
		db:        db,
		log:       log.Named("seatcount.signer"),
		clock:     clk,
		cfg:       cfg,
		realmRepo: realmRepo,
	}
	if strings.TrimSpace(cfg.Get().SeatTokenSecret) == "" {
		// Ephemeral key: tokens will not survive a restart, which only
		// forces the upgrade form to re-quote.
		s.fallbackSecret = make([]byte, 32)
		if _, err := rand.Read(s.fallbackSecret); err != nil {
			panic(err)
		}
		s.log.Warn("no seat token secret configured, using ephemeral key")
	}
	return s
}

// Issue derives the current billable seat count for the realm and returns it
// together with a signed token and fresh salt.
func (s *Signer) Issue(ctx context.Context, realmID snowflake.ID) (SignedCount, error) {
	count, err := s.realmRepo.CountActiveSeats(ctx, s.db, realmID)
	if err != nil {
		return SignedCount{}, err
	}

	salt := uuid.NewString()
	signed := s.sign(count, salt, s.clock.Now())
	return SignedCount{Count: count, Signed: signed, Salt: salt}, nil
}

// Verify checks the token signature and age and returns the embedded count.
// Any alteration of token or salt fails with ErrTampered.
func (s *Signer) Verify(signed, salt string) (int64, error) {
	dot := strings.LastIndexByte(signed, '.')
	if dot < 0 {
		return 0, ErrTampered
	}

	payloadRaw, err := base64.RawURLEncoding.DecodeString(signed[:dot])
	if err != nil {
		return 0, ErrTampered
	}
	parts := strings.Split(string(payloadRaw), "|")
	if len(parts) != 3 {
		return 0, ErrTampered
	}
	count, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, ErrTampered
	}
	issuedUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, ErrTampered
	}
	if parts[1] != salt {
		return 0, ErrTampered
	}

	expected := s.sign(count, salt, time.Unix(issuedUnix, 0))
	if !hmac.Equal([]byte(expected), []byte(signed)) {
		return 0, ErrTampered
	}

	maxAge := s.cfg.Get().SeatTokenMaxAge
	if s.clock.Now().Sub(time.Unix(issuedUnix, 0)) > maxAge {
		return 0, ErrExpired
	}

	return count, nil
}

func (s *Signer) sign(count int64, salt string, issuedAt time.Time) string {
	payload := fmt.Sprintf("%d|%s|%d", count, salt, issuedAt.Unix())
	mac := hmac.New(sha256.New, s.secret())
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + hex.EncodeToString(mac.Sum(nil))
}

func (s *Signer) secret() []byte {
	if secret := s.cfg.Get().SeatTokenSecret; strings.TrimSpace(secret) != "" {
		return []byte(secret)
	}
	return s.fallbackSecret
}

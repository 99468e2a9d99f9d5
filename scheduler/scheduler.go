// scheduler/scheduler.go
package scheduler

import (
	"context"
	"log"
	"time"

	"salonbook/store"

	"github.com/robfig/cron/v3"
)

// StartScheduler sweeps expired OTP records every minute. Verification
// already deletes an expired record when that email retries, but
// abandoned requests would otherwise sit in the collection forever.
func StartScheduler(otpStore store.OTPStore) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds()) // รองรับ seconds ด้วย

	_, err := c.AddFunc("0 * * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		deleted, err := otpStore.DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Printf("OTP sweep failed: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("OTP sweep removed %d expired record(s)", deleted)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Println("Scheduler started")
	return c, nil
}

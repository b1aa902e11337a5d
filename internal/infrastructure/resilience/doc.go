/*
Package resilience provides a circuit breaker for calls into flaky host helpers.

The notification dispatcher wraps every toast in a Breaker. After Threshold
consecutive failures the breaker opens and deliveries fail fast with
ErrCircuitOpen until Cooldown has passed; then one probe is let through and its
outcome closes or reopens the breaker.

	breaker := resilience.New("toast", resilience.Settings{
		Threshold: 5,
		Cooldown:  30 * time.Second,
	})
	err := breaker.Do(func() error {
		return os.ShowNotification(ctx, n)
	})

# States

	Closed --[Threshold failures]-> Open --[Cooldown]-> Half-Open --[success]-> Closed
	                                  ^                     |
	                                  +------[failure]------+
*/
package resilience

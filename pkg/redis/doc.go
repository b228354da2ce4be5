// Package redis manages the lifecycle of the process-wide Redis client.
//
// The client is constructed explicitly at startup and injected into the
// components that need it (the session store in this module); nothing looks
// it up ambiently. Connect retries with a bounded budget so that service
// startup tolerates a store that is still coming up.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis

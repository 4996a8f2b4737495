/*
Package certs serves the admin listener over TLS.

Certificates are reloaded from disk when the certificate or key file
changes, so renewals take effect without a restart:

	reloader := certs.NewReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval)
	if err := reloader.Start(ctx); err != nil {
		return err
	}

	tlsConfig, err := certs.ServerConfig(cfg, reloader)
	if err != nil {
		return err
	}
	srv := server.New(&adminCfg, routes, server.WithTLS(tlsConfig))

Reloader.Check plugs into the readiness probe and fails once the served
certificate has expired or the last reload attempt failed.
*/
package certs

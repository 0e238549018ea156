package emailsvc

import "github.com/trezcool/madrasa/core"

// New returns the EmailService of the configured provider.
func New(conf *core.Config) core.EmailService {
	switch conf.Email.Provider {
	case core.EmailProviderSMTP:
		return NewSMTPService(conf)
	case core.EmailProviderConsole:
		return NewConsoleService(conf)
	default:
		return NewSendgridService(conf)
	}
}

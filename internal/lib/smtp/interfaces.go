// Package smtp подключается к почтовому серверу зала для отправки писем клиентам.
package smtp

import "io"

// Client подмножество *smtp.Client, нужное для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает новое соединение с почтовым сервером.
type Dialer interface {
	Connect() (Client, error)
	Sender() string
}

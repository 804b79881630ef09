package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
	"github.com/pixil98/go-street/internal/listener"
)

type ListenerType int

const (
	ListenerTypeTCP ListenerType = iota
	ListenerTypeTelnet
	ListenerTypeSSH
	ListenerTypeWebsocket
)

func (lt *ListenerType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "tcp":
		*lt = ListenerTypeTCP
	case "telnet":
		*lt = ListenerTypeTelnet
	case "ssh":
		*lt = ListenerTypeSSH
	case "websocket":
		*lt = ListenerTypeWebsocket
	default:
		return fmt.Errorf("unknown listener type: %s", text)
	}
	return nil
}

type ListenerConfig struct {
	Protocol    ListenerType `json:"protocol"`
	Port        uint16       `json:"port"`
	HostKeyPath string       `json:"host_key_path,omitempty"`
	Path        string       `json:"path,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.HostKeyPath != "" && cl.Protocol != ListenerTypeSSH {
		el.Add(fmt.Errorf("host_key_path only applies to ssh listeners"))
	}
	if cl.Path != "" && cl.Protocol != ListenerTypeWebsocket {
		el.Add(fmt.Errorf("path only applies to websocket listeners"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(cm *listener.ConnectionManager) (service.Worker, error) {
	switch cl.Protocol {
	case ListenerTypeTCP:
		return listener.NewTcpListener(cl.Port, cm), nil
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.Port, cm), nil
	case ListenerTypeSSH:
		hostKey, err := listener.LoadHostKey(cl.HostKeyPath)
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return listener.NewSshListener(cl.Port, cm, hostKey), nil
	case ListenerTypeWebsocket:
		return listener.NewWebsocketListener(cl.Port, cl.Path, cm), nil
	default:
		return nil, fmt.Errorf("unknown listener type: %v", cl.Protocol)
	}
}

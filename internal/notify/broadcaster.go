package notify

import (
	"encoding/json"
	"net"
)

// Broadcaster is the sending side used by cmd/refresh: it dials the
// running notify server and hands it price drops to rebroadcast.
type Broadcaster struct {
	conn net.Conn
}

func DialBroadcaster(addr string) (*Broadcaster, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	return &Broadcaster{conn: conn}, nil
}

func (b *Broadcaster) SendPriceDrop(title string, oldPrice, newPrice float64, storeID string) error {
	payload, err := json.Marshal(PriceDropMessage{
		Type:     PriceDropMessageType,
		Title:    title,
		OldPrice: oldPrice,
		NewPrice: newPrice,
		StoreID:  storeID,
	})
	if err != nil {
		return err
	}
	_, err = b.conn.Write(payload)
	return err
}

func (b *Broadcaster) Close() error {
	return b.conn.Close()
}

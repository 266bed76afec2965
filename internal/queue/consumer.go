// Package queue contains the background consumer that listens to the
// room.created queue and writes structured lines to logs/rooms.log.
package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

const roomQueueName = "room.created"

// StartRoomConsumer connects to the broker at url, declares the
// room.created queue (durable), and starts consuming messages.  Each
// message is appended to logs/rooms.log in a single-line, human-friendly
// format.  The function runs a reconnect loop with exponential backoff
// and keeps running indefinitely; processing errors are logged and the
// offending message rejected so the server continues operating.
func StartRoomConsumer(url string) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("room-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn); err != nil {
            log.Printf("room-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("room-consumer: set QoS failed: %v", err)
    }

    _, err = ch.QueueDeclare(roomQueueName, true, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(roomQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := handleMessage(d.Body); err != nil {
            log.Printf("room-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
    var ev RoomCreatedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "rooms.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    utilities := "[]"
    if len(ev.Utilities) > 0 {
        utilities = fmt.Sprintf("[%s]", strings.Join(ev.Utilities, ","))
    }

    line := fmt.Sprintf("[%s] Room created | room_id=%d | building_id=%d | number=%q | status=%s | base_price=%.2f | capacity=%d | photos=%d | utilities=%s\n",
        ev.CreatedAt, ev.RoomID, ev.BuildingID, ev.RoomNumber, ev.Status, ev.BasePrice, ev.Capacity, ev.PhotoCount, utilities)

    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

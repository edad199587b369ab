package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nano-e/g3usi-adapter/pkg/appmanager"
	"github.com/nano-e/g3usi-adapter/pkg/bridge/netmgr"
	"github.com/nano-e/g3usi-adapter/pkg/transport"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// Configuration flags
var (
	serialDevice = flag.String("serial", "/dev/ttymxc2", "Serial device path to the G3-PLC/PRIME modem")
	baudRate     = flag.Int("baud", 230400, "Serial baud rate")
	redisAddr    = flag.String("redis-addr", "localhost:6379", "Redis server address")
	redisPass    = flag.String("redis-pass", "", "Redis password")
	redisDB      = flag.Int("redis-db", 0, "Redis database number")

	coordinator = flag.Bool("coordinator", false, "Start the network as a coordinator instead of joining one")
	reinitOnHB  = flag.Bool("reinit-on-heartbeat", false, "Re-run stack initialization as a coordinator on the next heartbeat once Ready")

	heartbeatInterval = flag.Duration("heartbeat-interval", 10*time.Second, "Interval between internal heartbeat ticks")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("Starting G3USI adapter")
	log.Printf("Serial device: %s", *serialDevice)
	log.Printf("Baud rate: %d", *baudRate)
	log.Printf("Redis address: %s", *redisAddr)

	port, err := transport.OpenSerial(*serialDevice, *baudRate)
	if err != nil {
		log.Fatalf("Failed to open serial device: %v", err)
	}
	defer port.Close()
	log.Printf("Connected to modem over %s", *serialDevice)

	var netSink appmanager.NetworkSink
	isCoordinator := *coordinator
	netClient, err := netmgr.New(*redisAddr, *redisPass, *redisDB)
	if err != nil {
		log.Printf("Warning: could not connect to Redis, ADP traffic will not be forwarded: %v", err)
	} else {
		defer netClient.Close()
		netSink = netmgr.NewSink(netClient)
		isCoordinator = netClient.IsCoordinator()
		log.Printf("Connected to Redis")
	}
	log.Printf("Coordinator: %v", isCoordinator)

	usiPort := usi.New(port, port)
	in := make(chan usi.Message, 256)
	usiPort.AddListener(in)
	usiPort.Start()
	defer usiPort.Stop()

	manager := appmanager.New(usiPort, netSink, appmanager.Options{
		IsCoordinator:           isCoordinator,
		ReinitializeOnHeartbeat: *reinitOnHB,
	})
	go manager.Run(in)

	if netClient != nil {
		go pollOperatorCommands(netClient, in)
	}

	in <- usi.SystemStartup()

	heartbeat := time.NewTicker(*heartbeatInterval)
	defer heartbeat.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case t := <-heartbeat.C:
			in <- usi.HeartBeat(t)
		case <-sigCh:
			log.Printf("Shutting down...")
			return
		}
	}
}

// pollOperatorCommands blocks on netmgr.Client.WaitCommand (the
// netmgr.CommandList list) and turns
// operator-issued commands into events on the App Manager's inbound
// channel. "reinit" is the only command understood today; anything
// else is logged and dropped.
func pollOperatorCommands(c *netmgr.Client, in chan<- usi.Message) {
	for {
		cmd, err := c.WaitCommand(5 * time.Second)
		if err != nil {
			log.Printf("netmgr: command poll error: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if cmd == "" {
			continue
		}
		switch cmd {
		case "reinit":
			log.Printf("netmgr: operator requested reinitialization")
			in <- usi.HeartBeat(time.Now())
		default:
			log.Printf("netmgr: ignoring unknown command %q", cmd)
		}
	}
}

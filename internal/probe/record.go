package probe

import (
	"time"

	"github.com/woozymasta/mcstatus/internal/chat"
	"github.com/woozymasta/mcstatus/internal/models"
)

// Record converts a probe outcome into a history row. res is ignored when err is set.
func Record(family Family, host string, port uint16, res *Result, err error, country string, at time.Time) models.ProbeRecord {
	rec := models.ProbeRecord{
		Family:      string(family),
		Host:        host,
		Port:        int(port),
		CountryCode: country,
		CheckedAt:   at,
	}

	if err != nil {
		rec.ErrorCode = string(Classify(err))
		return rec
	}

	rec.Online = true
	rec.TargetHost = res.Target.Host
	rec.TargetPort = int(res.Target.Port)
	rec.SRV = res.Target.SRV
	rec.IP = res.IP()
	rec.Latency = res.Latency()

	switch {
	case res.Java != nil:
		rec.Version = chat.Plain(res.Java.Version.Name)
		rec.MOTD = chat.Plain(chat.Flatten(res.Java.MOTD))
		rec.PlayersOnline = res.Java.Players.Online
		rec.PlayersMax = res.Java.Players.Max
	case res.Bedrock != nil:
		rec.Version = res.Bedrock.VersionName
		rec.MOTD = chat.Plain(res.Bedrock.MOTD)
		rec.PlayersOnline = res.Bedrock.OnlinePlayers
		rec.PlayersMax = res.Bedrock.MaxPlayers
	}

	return rec
}

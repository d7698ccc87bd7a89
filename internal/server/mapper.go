package server

import (
	"time"

	"github.com/woozymasta/mcstatus/internal/chat"
	"github.com/woozymasta/mcstatus/internal/models"
	"github.com/woozymasta/mcstatus/internal/probe"
)

// CodeInvalidAddress is the error code of a request whose address cannot be parsed.
const CodeInvalidAddress = "invalid_address"

func statusBase(res *probe.Result, country string, at time.Time) models.StatusBase {
	base := models.StatusBase{
		Online:      true,
		Host:        res.Host,
		Port:        res.Port,
		IPAddress:   res.IP(),
		CountryCode: country,
		RetrievedAt: at,
	}
	if res.Target.SRV {
		base.SRVRecord = &models.SRVRecord{Host: res.Target.Host, Port: res.Target.Port}
	}

	return base
}

func toJavaResponse(res *probe.Result, country string, at time.Time) models.JavaResponse {
	st := res.Java
	formatted := chat.Flatten(st.MOTD)

	out := models.JavaResponse{
		StatusBase: statusBase(res, country, at),
		Version: models.JavaVersion{
			Name:      st.Version.Name,
			NameClean: chat.Plain(st.Version.Name),
			Protocol:  st.Version.Protocol,
		},
		Players: models.JavaPlayers{
			Online: st.Players.Online,
			Max:    st.Players.Max,
			List:   make([]models.JavaPlayer, 0, len(st.Players.Sample)),
		},
		MOTD: models.MOTD{
			Raw:       st.Description,
			Formatted: formatted,
			Clean:     chat.Plain(formatted),
		},
		Latency:            st.Latency,
		EnforcesSecureChat: st.EnforcesSecureChat,
	}

	for _, p := range st.Players.Sample {
		out.Players.List = append(out.Players.List, models.JavaPlayer{
			UUID:      p.ID,
			Name:      p.Name,
			NameClean: chat.Plain(p.Name),
		})
	}

	if st.Favicon != "" {
		icon := st.Favicon
		out.Icon = &icon
	}

	return out
}

func toBedrockResponse(res *probe.Result, country string, at time.Time) models.BedrockResponse {
	st := res.Bedrock

	return models.BedrockResponse{
		StatusBase: statusBase(res, country, at),
		Edition:    st.Edition,
		Version: models.BedrockVersion{
			Name:     st.VersionName,
			Protocol: st.ProtocolVersion,
		},
		Players: models.BedrockPlayers{
			Online: st.OnlinePlayers,
			Max:    st.MaxPlayers,
		},
		MOTD: models.MOTD{
			Formatted: st.MOTD,
			Clean:     chat.Plain(st.MOTD),
		},
		ServerID:        st.ServerID,
		WorldName:       st.WorldName,
		GameMode:        st.GameMode,
		NintendoLimited: st.NintendoLimited,
		PortIPv4:        st.PortIPv4,
		PortIPv6:        st.PortIPv6,
		Latency:         st.Latency,
	}
}

func failureResponse(host string, port uint16, err error, at time.Time) models.StatusBase {
	return models.StatusBase{
		Online:      false,
		Host:        host,
		Port:        port,
		RetrievedAt: at,
		Error: &models.ErrorBody{
			Code:    string(probe.Classify(err)),
			Message: err.Error(),
		},
	}
}

// invalidAddressResponse reports an {address} path value that could not be parsed.
func invalidAddressResponse(address string, err error, at time.Time) models.StatusBase {
	return models.StatusBase{
		Online:      false,
		Host:        address,
		RetrievedAt: at,
		Error: &models.ErrorBody{
			Code:    CodeInvalidAddress,
			Message: err.Error(),
		},
	}
}

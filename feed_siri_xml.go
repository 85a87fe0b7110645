package main

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strconv"
	"time"

	"bustrack-visualizer/trajectory"
)

type SiriXmlVehicleFeedSource struct {
	url        string
	httpClient *http.Client
}

func NewSiriXmlVehicleFeedSource(url string, timeout time.Duration) *SiriXmlVehicleFeedSource {
	return &SiriXmlVehicleFeedSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *SiriXmlVehicleFeedSource) Fetch(ctx context.Context) ([]trajectory.Sample, error) {
	body, err := fetchBody(ctx, s.httpClient, s.url, "siri xml")
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return decodeSiriXML(body)
}

// decodeSiriXML streams VehicleActivity elements out of a SIRI VM document.
// Element matching uses Name.Local so any namespace prefix is accepted.
func decodeSiriXML(r io.Reader) ([]trajectory.Sample, error) {
	dec := xml.NewDecoder(r)

	var (
		inSiri, inSD, inVMD, inVA, inMVJ, inVL bool
		curID, curRecorded                     string
		curLat, curLon, curVelocity            string
		samples                                []trajectory.Sample
	)

	decodeText := func(se *xml.StartElement, dst *string) {
		var v string
		if err := dec.DecodeElement(&v, se); err == nil {
			*dst = v
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "Siri":
				inSiri = true
			case "ServiceDelivery":
				if inSiri {
					inSD = true
				}
			case "VehicleMonitoringDelivery":
				if inSD {
					inVMD = true
				}
			case "VehicleActivity":
				if inVMD {
					inVA = true
					curID, curRecorded, curLat, curLon, curVelocity = "", "", "", "", ""
				}
			case "RecordedAtTime":
				if inVA && !inMVJ {
					decodeText(&se, &curRecorded)
				}
			case "MonitoredVehicleJourney":
				if inVA {
					inMVJ = true
				}
			case "VehicleLocation":
				if inMVJ || inVA {
					inVL = true
				}
			case "VehicleRef":
				if inMVJ || inVA {
					decodeText(&se, &curID)
				}
			case "Velocity":
				if inMVJ {
					decodeText(&se, &curVelocity)
				}
			case "Latitude":
				if inVL {
					decodeText(&se, &curLat)
				}
			case "Longitude":
				if inVL {
					decodeText(&se, &curLon)
				}
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "VehicleLocation":
				inVL = false
			case "MonitoredVehicleJourney":
				inMVJ = false
			case "VehicleActivity":
				if inVA {
					inVA = false
					if curID != "" && curLat != "" && curLon != "" {
						if latf, lonf, ok := parseLatLon(curLat, curLon); ok {
							speed, _ := strconv.ParseFloat(curVelocity, 64)
							samples = append(samples, trajectory.Sample{
								BusID:     curID,
								Latitude:  latf,
								Longitude: lonf,
								Speed:     speed,
								Timestamp: unixFromSiriTime(curRecorded),
							})
						}
					}
				}
			case "VehicleMonitoringDelivery":
				inVMD = false
			case "ServiceDelivery":
				inSD = false
			case "Siri":
				inSiri = false
			}
		}
	}
	return samples, nil
}

func parseLatLon(lat, lon string) (float64, float64, bool) {
	lf, err1 := strconv.ParseFloat(lat, 64)
	if err1 != nil {
		return 0, 0, false
	}
	lo, err2 := strconv.ParseFloat(lon, 64)
	if err2 != nil {
		return 0, 0, false
	}
	return lf, lo, true
}

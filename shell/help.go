package shell

import (
	"embed"
	"errors"
)

//go:embed helptext/*.txt
var helpText embed.FS

func usage(mode string) (*Response, error) {
	dat, err := helpText.ReadFile("helptext/" + mode + ".txt")
	if err != nil {
		return nil, errors.New("could not load helptext: " + err.Error())
	}
	return msg(string(dat)), nil
}

func usageTopic(topic string) (*Response, error) {
	dat, err := helpText.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return nil, errors.New("there is no help text for the topic " + topic)
	}
	return msg(string(dat)), nil
}

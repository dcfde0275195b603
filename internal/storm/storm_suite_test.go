package storm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStorm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storm Suite")
}

package limbs

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures summarizes the instruction-set extensions that change the speed
// of the linked math/big vector kernels. None of them changes a result.
type CPUFeatures struct {
	AVX2   bool
	AVX512 bool
	BMI2   bool // MULX
	ADX    bool // ADCX/ADOX
	ASIMD  bool // arm64 Advanced SIMD
}

// DetectCPUFeatures reads the feature flags of the running processor.
func DetectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		AVX2:   cpu.X86.HasAVX2,
		AVX512: cpu.X86.HasAVX512F,
		BMI2:   cpu.X86.HasBMI2,
		ADX:    cpu.X86.HasADX,
		ASIMD:  cpu.ARM64.HasASIMD,
	}
}

// FastMulAdd reports whether math/big's addMulVVW runs on its carry-chain
// optimized path (amd64 with BMI2 and ADX, or arm64). The adaptive threshold
// estimates lower the Toom crossovers when it does not.
func (f CPUFeatures) FastMulAdd() bool {
	switch runtime.GOARCH {
	case "amd64":
		return f.BMI2 && f.ADX
	case "arm64":
		return true
	}
	return false
}

// String lists the detected features, or "none".
func (f CPUFeatures) String() string {
	var names []string
	if f.AVX2 {
		names = append(names, "avx2")
	}
	if f.AVX512 {
		names = append(names, "avx512f")
	}
	if f.BMI2 {
		names = append(names, "bmi2")
	}
	if f.ADX {
		names = append(names, "adx")
	}
	if f.ASIMD {
		names = append(names, "asimd")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

package linear

import "compress/lzw"
import "encoding/binary"
import "io"
import "os"
import "path/filepath"

import "github.com/pkg/errors"
import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// File names inside a model directory
const (
	ConfigFile  = "config.json"
	WeightsFile = "weights.lzw"
)

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (n *Network) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = n.WriteCompressedWeights(file)
	file.Close()
	return err
}

// WriteCompressedWeights writes weights then biases as little endian float32
func (n *Network) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := binary.Write(lw, binary.LittleEndian, n.w); err != nil {
		return err
	}
	if err := binary.Write(lw, binary.LittleEndian, n.b); err != nil {
		return err
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (n *Network) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	err = n.ReadCompressedWeights(file)
	file.Close()
	return err
}

// ReadCompressedWeights reads weights shaped by the network config
func (n *Network) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	if err := binary.Read(lr, binary.LittleEndian, n.w); err != nil {
		return err
	}
	if err := binary.Read(lr, binary.LittleEndian, n.b); err != nil {
		return err
	}
	return lr.Close()
}

// Save writes config.json and the weights into dir, creating it
func (n *Network) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(n.Config, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), buf, 0644); err != nil {
		return err
	}
	return n.WriteCompressedWeightsToFile(filepath.Join(dir, WeightsFile))
}

// Load reads a network saved by Save
func Load(dir string) (*Network, error) {
	path := filepath.Join(dir, ConfigFile)
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := json.Unmarshal(buf, &c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if c.ModelType != ModelType || c.Buckets == 0 || len(c.Labels) == 0 {
		return nil, errors.Errorf("%s: not a %s model", path, ModelType)
	}
	n := &Network{
		Config: c,
		w:      make([]float32, int(c.Buckets)*len(c.Labels)),
		b:      make([]float32, len(c.Labels)),
	}
	if err := n.ReadCompressedWeightsFromFile(filepath.Join(dir, WeightsFile)); err != nil {
		return nil, errors.Wrapf(err, "read weights of %s", dir)
	}
	return n, nil
}

// Clone returns a deep copy
func (n *Network) Clone() *Network {
	out := &Network{Config: n.Config}
	out.Labels = append([]string(nil), n.Labels...)
	out.w = append([]float32(nil), n.w...)
	out.b = append([]float32(nil), n.b...)
	return out
}
